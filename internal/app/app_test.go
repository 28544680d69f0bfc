package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myntr-ai/myntr/internal/clients/gemini"
	"github.com/myntr-ai/myntr/internal/clients/oaicompat"
	"github.com/myntr-ai/myntr/internal/common"
	"github.com/myntr-ai/myntr/internal/interfaces"
	"github.com/myntr-ai/myntr/internal/models"
	"github.com/myntr-ai/myntr/internal/storage/cache"
)

func testConfig(t *testing.T) *common.Config {
	t.Helper()
	cfg := common.NewDefaultConfig()
	cfg.Storage.Indicators.Path = filepath.Join(t.TempDir(), "missing.csv")
	return cfg
}

func writeCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "gfd.csv")
	content := "country_name,year,stock_market_capitalization_to_gdp,bank_credit_to_bank_deposits,financial_system_deposits_to_gdp\n" +
		"Turkey,2020,27.4,112,57.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewAppWithConfig_Defaults(t *testing.T) {
	cfg := testConfig(t)
	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.Nil(t, a.Indicators, "missing table leaves no store")
	assert.IsType(t, &cache.Memory{}, a.QuoteCache)
	assert.IsType(t, &oaicompat.Client{}, a.Generator)
	assert.Equal(t, cfg.LLM.Model, a.Generator.Model())
	assert.NotNil(t, a.AdviceService)
	assert.NotNil(t, a.MarketService)
}

func TestNewAppWithConfig_LoadsIndicators(t *testing.T) {
	cfg := testConfig(t)
	cfg.Storage.Indicators.Path = writeCSV(t)

	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)

	require.NotNil(t, a.Indicators)
	row, err := a.Indicators.Latest("Turkey")
	require.NoError(t, err)
	assert.Equal(t, 2020, row.Year)
}

func TestNewAppWithConfig_RedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := testConfig(t)
	cfg.Storage.Cache.RedisAddr = mr.Addr()

	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	defer a.Close()

	assert.IsType(t, &cache.Redis{}, a.QuoteCache)
}

func TestNewAppWithConfig_UnreachableRedisFallsBack(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig(t)
	cfg.Storage.Cache.RedisAddr = addr

	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)
	assert.IsType(t, &cache.Memory{}, a.QuoteCache)
}

func TestNewAppWithConfig_GeminiWithoutKeyServesFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = common.ProviderGemini
	cfg.LLM.APIKey = ""

	a, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	require.NoError(t, err)

	_, genErr := a.Generator.Generate(context.Background(), "p", interfaces.GenerationParams{})
	assert.True(t, errors.Is(genErr, ErrNoBackend))

	adv := a.AdviceService.Analyze(context.Background(), models.FinancialQuery{Question: "Ne yapmalıyım?"})
	assert.Equal(t, []string{"Sistem şu anda bakımda."}, adv.Recommendations)
	assert.Equal(t, gemini.DefaultModel, a.Generator.Model(), "OpenAI-compatible default model is not sent to Gemini")
}

func TestGeminiTarget(t *testing.T) {
	tests := []struct {
		name        string
		model       string
		baseURL     string
		wantModel   string
		wantBaseURL string
	}{
		{"defaults replaced", common.DefaultLLMModel, common.DefaultLLMBaseURL, gemini.DefaultModel, ""},
		{"empty model", "", "", gemini.DefaultModel, ""},
		{"explicit kept", "gemini-1.5-pro", "https://proxy.example.com", "gemini-1.5-pro", "https://proxy.example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, baseURL := geminiTarget(common.LLMConfig{Provider: common.ProviderGemini, Model: tt.model, BaseURL: tt.baseURL})
			assert.Equal(t, tt.wantModel, model)
			assert.Equal(t, tt.wantBaseURL, baseURL)
		})
	}
}

func TestNewAppWithConfig_UnknownProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLM.Provider = "llama.cpp"

	_, err := NewAppWithConfig(context.Background(), cfg, common.NewSilentLogger())
	assert.Error(t, err)
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "explicit.toml", ResolveConfigPath("explicit.toml"))

	t.Setenv("MYNTR_CONFIG", "from-env.toml")
	assert.Equal(t, "from-env.toml", ResolveConfigPath(""))
}

func TestNewTrainingService_LocalDatasetDryRun(t *testing.T) {
	dir := t.TempDir()
	qa := filepath.Join(dir, "qa.jsonl")
	require.NoError(t, os.WriteFile(qa, []byte(
		`{"question":"Enflasyon nedir?","answer":"Fiyat artışı."}`+"\n"+
			`{"question":"Faiz nedir?","answer":"Paranın bedeli."}`+"\n"), 0o644))

	cfg := testConfig(t)
	cfg.Storage.Indicators.Path = writeCSV(t)
	cfg.Training.LocalDataset = qa
	cfg.Training.OutputDir = filepath.Join(dir, "out")
	cfg.Training.FineTune.APIKey = ""

	manifest, err := NewTrainingService(cfg, common.NewSilentLogger()).Run(context.Background(), interfaces.TrainingOptions{})
	require.NoError(t, err)

	assert.True(t, manifest.DryRun)
	assert.Equal(t, qa, manifest.Dataset)
	assert.Equal(t, 1, manifest.ContextCount)
	assert.Equal(t, 2, manifest.QACount)
	assert.FileExists(t, filepath.Join(dir, "out", "manifest.json"))
}
