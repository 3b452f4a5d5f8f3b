package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// Level represents log severity
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a string level to Level
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "info", "INFO":
		return LevelInfo
	case "warn", "WARN", "warning", "WARNING":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	case "fatal", "FATAL":
		return LevelFatal
	default:
		return LevelInfo
	}
}

type ctxKey string

// Context keys read by WithContext.
const (
	RequestIDKey ctxKey = "request_id"
	SessionIDKey ctxKey = "session_id"
)

// ContextWithRequestID stores the request id for later WithContext calls.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// ContextWithSessionID stores the analysis session id.
func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// LogEntry represents a structured log entry
type LogEntry struct {
	Timestamp string         `json:"timestamp"`
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	RequestID string         `json:"request_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Service   string         `json:"service,omitempty"`
	File      string         `json:"file,omitempty"`
	Line      int            `json:"line,omitempty"`
	Duration  float64        `json:"duration_ms,omitempty"`
	Error     string         `json:"error,omitempty"`
	Fields    map[string]any `json:"fields,omitempty"`
}

// Logger is a structured JSON logger
type Logger struct {
	mu      *sync.Mutex
	level   Level
	output  io.Writer
	service string
	fields  map[string]any
}

// Config for logger
type Config struct {
	Level   Level
	Output  io.Writer
	Service string
}

var (
	defaultLogger *Logger
	once          sync.Once
)

// Init initializes the default logger
func Init(cfg Config) {
	once.Do(func() {
		if cfg.Service == "" {
			cfg.Service = "advisor"
		}
		defaultLogger = New(cfg)
	})
}

// Default returns the default logger, initialising it on first use.
func Default() *Logger {
	Init(Config{Level: LevelInfo, Output: os.Stdout, Service: "advisor"})
	return defaultLogger
}

// New creates a new logger instance
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Logger{
		mu:      &sync.Mutex{},
		level:   cfg.Level,
		output:  cfg.Output,
		service: cfg.Service,
		fields:  make(map[string]any),
	}
}

func (l *Logger) clone(extra int) *Logger {
	fields := make(map[string]any, len(l.fields)+extra)
	for k, v := range l.fields {
		fields[k] = v
	}
	return &Logger{
		mu:      l.mu,
		level:   l.level,
		output:  l.output,
		service: l.service,
		fields:  fields,
	}
}

// WithField returns a new logger with an additional field
func (l *Logger) WithField(key string, value any) *Logger {
	nl := l.clone(1)
	nl.fields[key] = value
	return nl
}

// WithFields returns a new logger with additional fields
func (l *Logger) WithFields(fields map[string]any) *Logger {
	nl := l.clone(len(fields))
	for k, v := range fields {
		nl.fields[k] = v
	}
	return nl
}

// WithContext extracts request_id and session_id from context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	nl := l.clone(2)
	if ctx == nil {
		return nl
	}
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		nl.fields["request_id"] = reqID
	}
	if sessionID, ok := ctx.Value(SessionIDKey).(string); ok && sessionID != "" {
		nl.fields["session_id"] = sessionID
	}
	return nl
}

// WithError adds error information
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

// WithDuration adds duration in milliseconds
func (l *Logger) WithDuration(d time.Duration) *Logger {
	return l.WithField("duration_ms", float64(d.Microseconds())/1000.0)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	if level < l.level {
		return
	}

	message := msg
	if len(args) > 0 {
		message = fmt.Sprintf(msg, args...)
	}

	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}

	entry := LogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Level:     level.String(),
		Message:   message,
		Service:   l.service,
	}

	// Promote well-known fields out of the generic map
	if reqID, ok := fields["request_id"].(string); ok {
		entry.RequestID = reqID
		delete(fields, "request_id")
	}
	if sessionID, ok := fields["session_id"].(string); ok {
		entry.SessionID = sessionID
		delete(fields, "session_id")
	}
	if errStr, ok := fields["error"].(string); ok {
		entry.Error = errStr
		delete(fields, "error")
	}
	if duration, ok := fields["duration_ms"].(float64); ok {
		entry.Duration = duration
		delete(fields, "duration_ms")
	}

	if level >= LevelError {
		if _, file, line, ok := runtime.Caller(2); ok {
			entry.File = file
			entry.Line = line
		}
	}

	if len(fields) > 0 {
		entry.Fields = fields
	}

	data, err := json.Marshal(entry)

	l.mu.Lock()
	defer l.mu.Unlock()

	if err != nil {
		fmt.Fprintf(l.output, `{"level":"ERROR","message":"failed to marshal log entry: %s"}`+"\n", err)
		return
	}
	l.output.Write(append(data, '\n'))
}

// Log methods
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }
func (l *Logger) Fatal(msg string, args ...any) {
	l.log(LevelFatal, msg, args...)
	os.Exit(1)
}

// Package-level functions using default logger
func Debug(msg string, args ...any) { Default().Debug(msg, args...) }
func Info(msg string, args ...any)  { Default().Info(msg, args...) }
func Warn(msg string, args ...any)  { Default().Warn(msg, args...) }
func Error(msg string, args ...any) { Default().Error(msg, args...) }
func Fatal(msg string, args ...any) { Default().Fatal(msg, args...) }

func WithField(key string, value any) *Logger  { return Default().WithField(key, value) }
func WithFields(fields map[string]any) *Logger { return Default().WithFields(fields) }
func WithContext(ctx context.Context) *Logger  { return Default().WithContext(ctx) }
func WithError(err error) *Logger              { return Default().WithError(err) }
func WithDuration(d time.Duration) *Logger     { return Default().WithDuration(d) }
