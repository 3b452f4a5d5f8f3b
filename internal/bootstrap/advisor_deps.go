package bootstrap

import (
	"time"

	"advisor_server/adapter/out/cache"
	"advisor_server/adapter/out/canvas"
	"advisor_server/adapter/out/gemini"
	"advisor_server/adapter/out/sarvam"
	"advisor_server/config"
	"advisor_server/core/port/out"
	"advisor_server/core/service/advisor"
	"advisor_server/core/service/knowledge"
	"advisor_server/core/service/recommendation"
	"advisor_server/core/service/scoring"
	"advisor_server/infra/database"
	pcache "advisor_server/pkg/cache"
	"advisor_server/pkg/httputil"
	"advisor_server/pkg/logger"
	"advisor_server/pkg/ratelimit"
	"advisor_server/pkg/snowflake"

	"github.com/redis/go-redis/v9"
)

type Dependencies struct {
	Config *config.Config
	Redis  *redis.Client

	Knowledge *knowledge.KnowledgeBase
	Scoring   *scoring.Engine
	Document  *canvas.Document
	Cache     *cache.AnalysisCache
	AIGuard   *ratelimit.Guard

	// Optional upstreams; nil when not configured.
	Gemini *gemini.Client
	Sarvam *sarvam.Client

	Advisor *advisor.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	ids, err := snowflake.NewGenerator(cfg.NodeID)
	if err != nil {
		return nil, nil, err
	}

	// Knowledge base is embedded; a parse failure is a build defect.
	kb, err := knowledge.Load()
	if err != nil {
		return nil, nil, err
	}
	deps.Knowledge = kb
	deps.Scoring = scoring.NewEngine(kb, cfg.ColorSimilarityThreshold)
	logger.Info("Knowledge base loaded: %d regions, %d languages", len(kb.Regions()), len(kb.Languages()))

	deps.Document = canvas.New(ids, nil)

	// Redis (optional L2 for analysis results)
	var l2 *pcache.RedisCache
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, analysis cache is in-process only: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			l2 = pcache.NewRedisCache(redisClient, "advisor:analysis:")
			logger.Info("Redis analysis cache enabled")
		}
	}
	deps.Cache = cache.NewAnalysisCache(cfg.AnalysisCacheMaxEntries, cfg.AnalysisCacheTTL, l2)

	deps.AIGuard = ratelimit.NewGuard(ratelimit.Config{
		MaxConcurrent:     cfg.AIMaxConcurrent,
		RequestsPerSecond: cfg.AIRatePerSec,
		BurstSize:         cfg.AIRateBurst,
	})

	// Ports stay nil interfaces when an upstream is missing so the
	// service can report the feature as unavailable.
	var (
		text       out.TextGenerator
		images     out.ImageGenerator
		translator out.Translator
	)

	if cfg.HasGemini() {
		client, err := gemini.New(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			BaseURL:     cfg.GeminiBaseURL,
			TextModel:   cfg.GeminiTextModel,
			ImageModel:  cfg.GeminiImageModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			Timeout:     time.Duration(cfg.LLMTimeoutSec) * time.Second,
			Guard:       deps.AIGuard,
		})
		if err != nil {
			return nil, nil, err
		}
		deps.Gemini = client
		text, images = client, client
		logger.Info("Gemini client initialized (text=%s, image=%s)", cfg.GeminiTextModel, cfg.GeminiImageModel)
	} else {
		logger.Warn("GEMINI_API_KEY not set, AI analysis and image generation are disabled")
	}

	if cfg.HasSarvam() {
		client, err := sarvam.New(cfg.SarvamAPIKey, cfg.SarvamAPIURL, httputil.NewClient(httputil.SarvamClientConfig()))
		if err != nil {
			return nil, nil, err
		}
		deps.Sarvam = client
		translator = client
		logger.Info("Sarvam translator initialized")
	} else {
		logger.Warn("SARVAM_API_KEY not set, translation is disabled")
	}

	deps.Advisor = advisor.NewService(advisor.Deps{
		Knowledge:  kb,
		Scoring:    deps.Scoring,
		Classifier: recommendation.NewClassifier(),
		Document:   deps.Document,
		Text:       text,
		Images:     images,
		Translator: translator,
		Cache:      deps.Cache,
	}, advisor.Config{
		ScoreSource:  cfg.ScoreSource,
		ImageWorkers: cfg.ImageBatchWorkers,
	})

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return deps, cleanup, nil
}
