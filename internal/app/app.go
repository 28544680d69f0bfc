package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/myntr-ai/myntr/internal/clients/gemini"
	"github.com/myntr-ai/myntr/internal/clients/oaicompat"
	"github.com/myntr-ai/myntr/internal/clients/yahoo"
	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/services/advice"
	"github.com/myntr-ai/myntr/internal/services/quote"
	"github.com/myntr-ai/myntr/internal/storage/cache"
	"github.com/myntr-ai/myntr/internal/storage/indicators"
)

// App holds all initialized services and clients.
// It is the shared core used by both cmd/myntr-server and cmd/myntr-train.
type App struct {
	Config        *common.Config
	Logger        *common.Logger
	Indicators    interfaces.IndicatorStore
	QuoteCache    interfaces.QuoteCache
	Generator     interfaces.TextGenerator
	AdviceService interfaces.AdviceService
	MarketService interfaces.MarketService
	StartupTime   time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: explicit path, MYNTR_CONFIG,
// myntr.toml next to the binary, then config/myntr.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("MYNTR_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "myntr.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/myntr.toml"
		}
	}
	return configPath
}

// LoadConfig loads configuration and builds the logger.
func LoadConfig(configPath string) (*common.Config, *common.Logger, error) {
	common.LoadVersionFromFile()

	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, common.NewLoggerFromConfig(config.Logging), nil
}

// NewApp initializes the serving stack.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	config, logger, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	return NewAppWithConfig(context.Background(), config, logger)
}

// NewAppWithConfig wires services from an already loaded config.
func NewAppWithConfig(ctx context.Context, config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	generator, err := newGenerator(ctx, config.LLM, logger)
	if err != nil {
		return nil, err
	}

	indicatorStore := loadIndicators(config.Storage.Indicators.Path, logger)
	quoteCache := newQuoteCache(ctx, config.Storage.Cache, logger)

	adviceService := advice.NewService(
		advice.NewContextBuilder(indicatorStore, config.Context.Country),
		advice.NewGenerator(generator,
			advice.WithParams(interfaces.GenerationParams{
				Temperature:     config.LLM.Temperature,
				TopP:            config.LLM.TopP,
				MaxOutputTokens: config.LLM.MaxOutputTokens,
			}),
			advice.WithMaxPromptChars(config.LLM.MaxPromptChars),
			advice.WithTimeout(config.LLM.GetTimeout()),
			advice.WithRateLimit(config.LLM.RateLimit),
			advice.WithLogger(logger),
		),
		logger,
	)

	marketService := quote.NewService(
		yahoo.NewClient(yahoo.WithLogger(logger)),
		quoteCache,
		config.Market.GetCacheTTL(),
		logger,
	)

	a := &App{
		Config:        config,
		Logger:        logger,
		Indicators:    indicatorStore,
		QuoteCache:    quoteCache,
		Generator:     generator,
		AdviceService: adviceService,
		MarketService: marketService,
		StartupTime:   startupStart,
	}

	logger.Info().
		Str("provider", config.LLM.Provider).
		Str("model", generator.Model()).
		Bool("indicators", indicatorStore != nil).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.QuoteCache != nil {
		if err := a.QuoteCache.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close quote cache")
		}
		a.QuoteCache = nil
	}
}

// ErrNoBackend is returned by the placeholder generator used when no inference backend is configured.
var ErrNoBackend = errors.New("no inference backend configured")

type unavailableGenerator struct {
	model string
}

func (u unavailableGenerator) Generate(context.Context, string, interfaces.GenerationParams) (string, error) {
	return "", ErrNoBackend
}

func (u unavailableGenerator) Model() string { return u.model }

// newGenerator builds the inference backend for the configured provider.
// A Gemini provider without a key degrades to a backend that always fails, so /analyze serves fallbacks.
func newGenerator(ctx context.Context, cfg common.LLMConfig, logger *common.Logger) (interfaces.TextGenerator, error) {
	switch cfg.Provider {
	case common.ProviderGemini:
		model, baseURL := geminiTarget(cfg)
		if cfg.APIKey == "" {
			logger.Warn().Msg("Gemini API key not configured - advice will use fallback answers")
			return unavailableGenerator{model: model}, nil
		}
		client, err := gemini.NewClient(ctx, cfg.APIKey, baseURL,
			gemini.WithModel(model),
			gemini.WithLogger(logger),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client - advice will use fallback answers")
			return unavailableGenerator{model: model}, nil
		}
		return client, nil
	case common.ProviderOpenAI, "":
		return oaicompat.NewClient(cfg.APIKey, cfg.BaseURL,
			oaicompat.WithModel(cfg.Model),
			oaicompat.WithMode(cfg.Mode),
			oaicompat.WithLogger(logger),
		), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// geminiTarget swaps the OpenAI-compatible default model and base URL for Gemini's own.
// Explicitly configured values are kept.
func geminiTarget(cfg common.LLMConfig) (model, baseURL string) {
	model, baseURL = cfg.Model, cfg.BaseURL
	if model == "" || model == common.DefaultLLMModel {
		model = gemini.DefaultModel
	}
	if baseURL == common.DefaultLLMBaseURL {
		baseURL = ""
	}
	return model, baseURL
}

// loadIndicators returns nil when the table cannot be read; serving continues without market context.
func loadIndicators(path string, logger *common.Logger) interfaces.IndicatorStore {
	if path == "" {
		logger.Warn().Msg("Indicator table path not configured")
		return nil
	}
	store, err := indicators.Load(path, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("Indicator table unavailable - prompts will carry no market context")
		return nil
	}
	return store
}

// newQuoteCache prefers Redis when configured and reachable, otherwise memory.
func newQuoteCache(ctx context.Context, cfg common.CacheConfig, logger *common.Logger) interfaces.QuoteCache {
	if cfg.RedisAddr == "" {
		return cache.NewMemory()
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedis(pingCtx, cfg, logger)
	if err != nil {
		logger.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unavailable - using in-memory quote cache")
		return cache.NewMemory()
	}
	return redisCache
}
