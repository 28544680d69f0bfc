package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myntr-ai/myntr/internal/models"
)

func TestParseFlags(t *testing.T) {
	opts, err := parseFlags([]string{"-config", "c.toml", "-output", "out", "-seed", "7", "-dry-run", "-wait"})
	require.NoError(t, err)
	assert.Equal(t, "c.toml", opts.configPath)
	assert.Equal(t, "out", opts.outputDir)
	assert.Equal(t, int64(7), opts.seed)
	assert.True(t, opts.seedSet)
	assert.True(t, opts.dryRun)
	assert.True(t, opts.wait)

	opts, err = parseFlags(nil)
	require.NoError(t, err)
	assert.False(t, opts.seedSet)

	_, err = parseFlags([]string{"-unknown"})
	assert.Error(t, err)
}

func writeFixture(t *testing.T) (configPath, outDir string) {
	t.Helper()
	dir := t.TempDir()
	qa := filepath.Join(dir, "qa.jsonl")
	require.NoError(t, os.WriteFile(qa, []byte(
		`{"question":"Enflasyon nedir?","answer":"Fiyat artışı."}`+"\n"+
			`{"question":"Faiz nedir?","answer":"Paranın bedeli."}`+"\n"+
			`{"question":"Tahvil nedir?","answer":"Borçlanma aracı."}`+"\n"), 0o644))

	outDir = filepath.Join(dir, "out")
	configPath = filepath.Join(dir, "myntr.toml")
	content := `
[logging]
level = "error"

[storage.indicators]
path = "` + filepath.ToSlash(filepath.Join(dir, "missing.csv")) + `"

[training]
local_dataset = "` + filepath.ToSlash(qa) + `"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))
	return configPath, outDir
}

func TestRun_DryRunWritesManifest(t *testing.T) {
	t.Setenv("MYNTR_FINETUNE_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	configPath, outDir := writeFixture(t)

	err := run(context.Background(), &options{configPath: configPath, outputDir: outDir, seed: 9, seedSet: true, dryRun: true})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(outDir, "manifest.json"))
	require.NoError(t, err)
	var manifest models.TrainingManifest
	require.NoError(t, json.Unmarshal(raw, &manifest))
	assert.Equal(t, int64(9), manifest.Seed)
	assert.Equal(t, 3, manifest.QACount)
	assert.True(t, manifest.DryRun)
}

func TestRun_MissingDatasetFails(t *testing.T) {
	configPath, outDir := writeFixture(t)
	require.NoError(t, os.Remove(filepath.Join(filepath.Dir(configPath), "qa.jsonl")))

	err := run(context.Background(), &options{configPath: configPath, outputDir: outDir, dryRun: true})
	assert.Error(t, err)
}
