package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_DefaultPort(t *testing.T) {
	cfg := NewDefaultConfig()
	if cfg.Server.Port != 8000 {
		t.Errorf("Server.Port default = %d, want %d", cfg.Server.Port, 8000)
	}
}

func TestConfig_DefaultSampling(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 0.9, cfg.LLM.TopP)
	assert.Equal(t, 512, cfg.LLM.MaxOutputTokens)
	assert.Equal(t, "Turkey", cfg.Context.Country)
	assert.Equal(t, int64(42), cfg.Training.Seed)
	assert.Equal(t, "models/myntr-ai-v0.1", cfg.Training.OutputDir)
}

func TestConfig_PortEnvOverride(t *testing.T) {
	t.Setenv("MYNTR_PORT", "9090")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d after env override, want %d", cfg.Server.Port, 9090)
	}
}

func TestConfig_InvalidPortEnvIgnored(t *testing.T) {
	t.Setenv("MYNTR_PORT", "not-a-port")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, 8000, cfg.Server.Port)
}

func TestConfig_SeedEnvOverride(t *testing.T) {
	t.Setenv("MYNTR_SEED", "7")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, int64(7), cfg.Training.Seed)
}

func TestLoadConfig_MergesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.toml")
	second := filepath.Join(dir, "b.toml")
	require.NoError(t, os.WriteFile(first, []byte("[llm]\nprovider = \"Gemini\"\nmodel = \"first\"\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("[llm]\nmodel = \"second\"\n[context]\ncountry = \"Brazil\"\n"), 0o644))

	cfg, err := LoadConfig(first, second, filepath.Join(dir, "missing.toml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "second", cfg.LLM.Model)
	assert.Equal(t, "Brazil", cfg.Context.Country)
	assert.Equal(t, 0.9, cfg.LLM.TopP, "defaults survive partial files")
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm\nmodel="), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_GeminiKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	t.Setenv("MYNTR_LLM_PROVIDER", "gemini")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.LLM.APIKey)
}

func TestResolveAPIKey_FallbackAndMissing(t *testing.T) {
	t.Setenv("HF_TOKEN", "")
	t.Setenv("MYNTR_HF_TOKEN", "")

	key, err := ResolveAPIKey("hf_token", "from-config")
	require.NoError(t, err)
	assert.Equal(t, "from-config", key)

	_, err = ResolveAPIKey("hf_token", "")
	assert.Error(t, err)
}

func TestConfig_DurationFallbacks(t *testing.T) {
	llm := LLMConfig{Timeout: "bogus"}
	assert.Equal(t, 60*time.Second, llm.GetTimeout())

	market := MarketConfig{CacheTTL: "5m"}
	assert.Equal(t, 5*time.Minute, market.GetCacheTTL())

	training := TrainingConfig{PollInterval: "0s"}
	assert.Equal(t, 30*time.Second, training.GetPollInterval())
}

func TestConfig_IsProduction(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.False(t, cfg.IsProduction())
	cfg.Environment = " Prod "
	assert.True(t, cfg.IsProduction())
}

func TestLoadVersionFile(t *testing.T) {
	origVersion, origBuild, origCommit := Version, Build, GitCommit
	t.Cleanup(func() { Version, Build, GitCommit = origVersion, origBuild, origCommit })
	Version, Build, GitCommit = "dev", "unknown", "unknown"

	path := filepath.Join(t.TempDir(), ".version")
	require.NoError(t, os.WriteFile(path, []byte("# build info\nversion: 0.1.0\nbuild: 2026-10-14\nnot a pair\n"), 0o644))

	loadVersionFile(path)

	assert.Equal(t, "0.1.0", GetVersion())
	assert.Equal(t, "2026-10-14", GetBuild())
	assert.Equal(t, "unknown", GetGitCommit())
}
