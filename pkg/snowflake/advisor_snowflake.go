// Package snowflake generates time-ordered 64-bit ids for canvas nodes.
//
// Layout: 41 bits of milliseconds since 2025-01-01 UTC, 10 bits of node
// (process) id, 12 bits of per-millisecond sequence.
package snowflake

import (
	"errors"
	"strconv"
	"sync"
	"time"
)

const (
	epoch int64 = 1735689600000

	nodeBits     = 10
	sequenceBits = 12

	maxNode     = (1 << nodeBits) - 1
	maxSequence = (1 << sequenceBits) - 1

	timeShift = nodeBits + sequenceBits
	nodeShift = sequenceBits
)

var (
	ErrInvalidNode    = errors.New("snowflake: node id must be between 0 and 1023")
	ErrClockMovedBack = errors.New("snowflake: clock moved backwards")
)

// Generator hands out unique ids. Safe for concurrent use.
type Generator struct {
	mu       sync.Mutex
	node     int64
	sequence int64
	last     int64
	now      func() int64
}

// NewGenerator creates a generator for the given node id.
func NewGenerator(node int64) (*Generator, error) {
	if node < 0 || node > maxNode {
		return nil, ErrInvalidNode
	}
	return &Generator{
		node: node,
		now:  func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Next returns the next id.
func (g *Generator) Next() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.now()
	if ms < g.last {
		return 0, ErrClockMovedBack
	}

	if ms == g.last {
		g.sequence = (g.sequence + 1) & maxSequence
		if g.sequence == 0 {
			for ms <= g.last {
				time.Sleep(100 * time.Microsecond)
				ms = g.now()
			}
		}
	} else {
		g.sequence = 0
	}
	g.last = ms

	return ((ms - epoch) << timeShift) | (g.node << nodeShift) | g.sequence, nil
}

// NextString returns the next id in base 36, prefixed.
func (g *Generator) NextString(prefix string) (string, error) {
	id, err := g.Next()
	if err != nil {
		return "", err
	}
	return prefix + strconv.FormatInt(id, 36), nil
}

// Parse splits an id into its components.
func Parse(id int64) (at time.Time, node int64, sequence int64) {
	at = time.UnixMilli((id >> timeShift) + epoch)
	node = (id >> nodeShift) & maxNode
	sequence = id & maxSequence
	return
}
