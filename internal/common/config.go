// Package common provides shared utilities for Myntr
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Myntr
type Config struct {
	Environment string         `toml:"environment"`
	Server      ServerConfig   `toml:"server"`
	Logging     LoggingConfig  `toml:"logging"`
	LLM         LLMConfig      `toml:"llm"`
	Context     ContextConfig  `toml:"context"`
	Market      MarketConfig   `toml:"market"`
	Storage     StorageConfig  `toml:"storage"`
	Clients     ClientsConfig  `toml:"clients"`
	Training    TrainingConfig `toml:"training"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LLM providers understood by the app wiring.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Default OpenAI-compatible backend: the fine-tuned model behind a local inference server.
const (
	DefaultLLMModel   = "yusufbaykaloglu/turkish-finance-chat"
	DefaultLLMBaseURL = "http://localhost:8080/v1"
)

// LLMConfig holds inference backend configuration and sampling parameters.
type LLMConfig struct {
	Provider        string  `toml:"provider"` // "gemini" or "openai" (any OpenAI-compatible server)
	Model           string  `toml:"model"`
	BaseURL         string  `toml:"base_url"`
	APIKey          string  `toml:"api_key"`
	Mode            string  `toml:"mode"` // openai only: "completion" (raw prompt) or "chat"
	Temperature     float64 `toml:"temperature"`
	TopP            float64 `toml:"top_p"`
	MaxOutputTokens int     `toml:"max_output_tokens"`
	MaxPromptChars  int     `toml:"max_prompt_chars"`
	Timeout         string  `toml:"timeout"`
	RateLimit       int     `toml:"rate_limit"` // generations per second
}

// GetTimeout parses and returns the per-generation timeout
func (c *LLMConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 60 * time.Second
	}
	return d
}

// ContextConfig controls the market context injected into prompts
type ContextConfig struct {
	Country string `toml:"country"`
}

// MarketConfig holds live quote configuration
type MarketConfig struct {
	CacheTTL string `toml:"cache_ttl"`
}

// GetCacheTTL parses and returns the quote cache TTL
func (c *MarketConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return time.Minute
	}
	return d
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	Indicators AreaConfig  `toml:"indicators"` // country-year financial indicator CSV
	Cache      CacheConfig `toml:"cache"`
}

// AreaConfig holds path configuration for a storage area.
type AreaConfig struct {
	Path string `toml:"path"`
}

// CacheConfig selects the quote cache backend. Empty RedisAddr means in-memory.
type CacheConfig struct {
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	HFDatasets HFDatasetsConfig `toml:"hfdatasets"`
}

// HFDatasetsConfig holds Hugging Face datasets-server configuration
type HFDatasetsConfig struct {
	BaseURL   string `toml:"base_url"`
	Token     string `toml:"token"`
	RateLimit int    `toml:"rate_limit"`
	PageSize  int    `toml:"page_size"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *HFDatasetsConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// TrainingConfig holds fine-tune pipeline configuration
type TrainingConfig struct {
	BaseModel          string         `toml:"base_model"`
	Dataset            string         `toml:"dataset"`
	DatasetConfig      string         `toml:"dataset_config"`
	Split              string         `toml:"split"`
	LocalDataset       string         `toml:"local_dataset"` // JSONL of {"question","answer"}; overrides Dataset when set
	OutputDir          string         `toml:"output_dir"`
	Seed               int64          `toml:"seed"`
	ValidationFraction float64        `toml:"validation_fraction"`
	MaxExampleChars    int            `toml:"max_example_chars"`
	Epochs             int            `toml:"epochs"`
	BatchSize          int            `toml:"batch_size"`
	WarmupSteps        int            `toml:"warmup_steps"`
	WeightDecay        float64        `toml:"weight_decay"`
	MaxLength          int            `toml:"max_length"`
	EvalSteps          int            `toml:"eval_steps"`
	SaveSteps          int            `toml:"save_steps"`
	SaveTotalLimit     int            `toml:"save_total_limit"`
	Suffix             string         `toml:"suffix"`
	PollInterval       string         `toml:"poll_interval"`
	FineTune           FineTuneConfig `toml:"fine_tune"`
}

// GetPollInterval parses and returns the job polling interval
func (c *TrainingConfig) GetPollInterval() time.Duration {
	d, err := time.ParseDuration(c.PollInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// FineTuneConfig points at an OpenAI-compatible fine-tuning API.
// An empty APIKey means dry run: only the corpus and manifest are written.
type FineTuneConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string   `toml:"level"`
	Format   string   `toml:"format"`
	Outputs  []string `toml:"outputs"`
	FilePath string   `toml:"file_path"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8000,
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "console",
			Outputs:  []string{"console"},
			FilePath: "./logs/myntr.log",
		},
		LLM: LLMConfig{
			Provider:        ProviderOpenAI,
			Model:           DefaultLLMModel,
			BaseURL:         DefaultLLMBaseURL,
			Mode:            "completion",
			Temperature:     0.7,
			TopP:            0.9,
			MaxOutputTokens: 512,
			MaxPromptChars:  2048,
			Timeout:         "60s",
			RateLimit:       5,
		},
		Context: ContextConfig{
			Country: "Turkey",
		},
		Market: MarketConfig{
			CacheTTL: "1m",
		},
		Storage: StorageConfig{
			Indicators: AreaConfig{Path: "datasets/worldbank-global-financial-development.csv"},
		},
		Clients: ClientsConfig{
			HFDatasets: HFDatasetsConfig{
				BaseURL:   "https://datasets-server.huggingface.co",
				RateLimit: 5,
				PageSize:  100,
				Timeout:   "30s",
			},
		},
		Training: TrainingConfig{
			BaseModel:          "dbmdz/bert-base-turkish-cased",
			Dataset:            "yusufbaykaloglu/turkish-finance-dataset",
			DatasetConfig:      "default",
			Split:              "train",
			OutputDir:          "models/myntr-ai-v0.1",
			Seed:               42,
			ValidationFraction: 0.1,
			MaxExampleChars:    2048,
			Epochs:             3,
			BatchSize:          8,
			WarmupSteps:        500,
			WeightDecay:        0.01,
			MaxLength:          512,
			EvalSteps:          500,
			SaveSteps:          1000,
			SaveTotalLimit:     2,
			Suffix:             "myntr-ai-v0.1",
			PollInterval:       "30s",
			FineTune: FineTuneConfig{
				BaseURL: "https://api.openai.com/v1",
			},
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	resolveAPIKeys(config)

	config.LLM.Provider = strings.ToLower(strings.TrimSpace(config.LLM.Provider))

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("MYNTR_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("MYNTR_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("MYNTR_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("MYNTR_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if v := os.Getenv("MYNTR_LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("MYNTR_LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	if v := os.Getenv("MYNTR_LLM_BASE_URL"); v != "" {
		config.LLM.BaseURL = v
	}

	if v := os.Getenv("MYNTR_INDICATORS_PATH"); v != "" {
		config.Storage.Indicators.Path = v
	}
	if v := os.Getenv("MYNTR_REDIS_ADDR"); v != "" {
		config.Storage.Cache.RedisAddr = v
	}

	if v := os.Getenv("MYNTR_OUTPUT_DIR"); v != "" {
		config.Training.OutputDir = v
	}
	if v := os.Getenv("MYNTR_SEED"); v != "" {
		if s, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.Training.Seed = s
		}
	}
}

// keyToEnvMapping lists the environment variables consulted for each API key, highest priority first.
var keyToEnvMapping = map[string][]string{
	"gemini_api_key":   {"GEMINI_API_KEY", "MYNTR_GEMINI_API_KEY", "GOOGLE_API_KEY"},
	"openai_api_key":   {"OPENAI_API_KEY", "MYNTR_OPENAI_API_KEY"},
	"hf_token":         {"HF_TOKEN", "MYNTR_HF_TOKEN"},
	"finetune_api_key": {"MYNTR_FINETUNE_API_KEY", "OPENAI_API_KEY"},
}

// ResolveAPIKey resolves an API key from environment or fallback
func ResolveAPIKey(name string, fallback string) (string, error) {
	if envVarNames, ok := keyToEnvMapping[name]; ok {
		for _, envVarName := range envVarNames {
			if envValue := os.Getenv(envVarName); envValue != "" {
				return envValue, nil
			}
		}
	}

	if fallback != "" {
		return fallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// resolveAPIKeys fills API keys from the environment when present.
func resolveAPIKeys(config *Config) {
	llmKey := "openai_api_key"
	if strings.EqualFold(config.LLM.Provider, ProviderGemini) {
		llmKey = "gemini_api_key"
	}
	if key, err := ResolveAPIKey(llmKey, config.LLM.APIKey); err == nil {
		config.LLM.APIKey = key
	}
	if key, err := ResolveAPIKey("hf_token", config.Clients.HFDatasets.Token); err == nil {
		config.Clients.HFDatasets.Token = key
	}
	if key, err := ResolveAPIKey("finetune_api_key", config.Training.FineTune.APIKey); err == nil {
		config.Training.FineTune.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
