package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".pressctl.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := writeConfigFile(t, `
content_dir: /srv/content
languages:
  - code: en
    name: English
    priority: 1
    tier: primary
  - code: fr
    name: Français
    priority: 2
    tier: secondary
publishing:
  strategy: primary
  max_per_language_per_day: 2
  skip_weekends: false
  min_buffer: 7
  critical_buffer: 3
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/content", cfg.ContentDir)
	require.Len(t, cfg.Languages, 2)
	assert.Equal(t, StrategyPrimary, cfg.Publishing.Strategy)
	assert.Equal(t, 2, cfg.Publishing.MaxPerLanguagePerDay)
	assert.False(t, cfg.Publishing.SkipWeekends)
	assert.Equal(t, 7, cfg.Publishing.MinBuffer)
	assert.Equal(t, 3, cfg.Publishing.CriticalBuffer)
}

func TestLoadConfigFallsBackToDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	want := DefaultConfig()
	assert.Equal(t, want.Languages, cfg.Languages)
	assert.Equal(t, want.Publishing, cfg.Publishing)
}

func TestLoadConfigUnparseableFallsBackToDefaults(t *testing.T) {
	path := writeConfigFile(t, "languages: [unclosed")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Languages, cfg.Languages)
}

func TestLoadConfigRejectsDuplicateLanguageCodes(t *testing.T) {
	path := writeConfigFile(t, `
languages:
  - code: en
    priority: 1
  - code: en
    priority: 2
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate language code")
}

func TestLoadConfigRejectsUnknownStrategy(t *testing.T) {
	path := writeConfigFile(t, `
publishing:
  strategy: everything
`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid strategy")
}

func TestLoadConfigClampsPerDayCap(t *testing.T) {
	path := writeConfigFile(t, `
publishing:
  max_per_language_per_day: 0
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Publishing.MaxPerLanguagePerDay)
}

func TestLanguagesByPriority(t *testing.T) {
	cfg := &Config{
		Languages: []Language{
			{Code: "fr", Priority: 2},
			{Code: "en", Priority: 1},
			{Code: "de", Priority: 2},
		},
		Publishing: PublishingConfig{Strategy: StrategyAll},
	}

	langs := cfg.LanguagesByPriority()
	require.Len(t, langs, 3)
	assert.Equal(t, "en", langs[0].Code)
	// Equal priorities keep configuration order.
	assert.Equal(t, "fr", langs[1].Code)
	assert.Equal(t, "de", langs[2].Code)
}

func TestTargetLanguagesPrimaryStrategy(t *testing.T) {
	cfg := &Config{
		Languages: []Language{
			{Code: "en", Priority: 1, Tier: TierPrimary},
			{Code: "fr", Priority: 2, Tier: TierSecondary},
		},
		Publishing: PublishingConfig{Strategy: StrategyPrimary},
	}

	langs := cfg.TargetLanguages()
	require.Len(t, langs, 1)
	assert.Equal(t, "en", langs[0].Code)

	cfg.Publishing.Strategy = StrategyAll
	assert.Len(t, cfg.TargetLanguages(), 2)
}

func TestLanguageLookup(t *testing.T) {
	cfg := DefaultConfig()

	lang, ok := cfg.Language("fr")
	require.True(t, ok)
	assert.Equal(t, "Français", lang.Name)

	_, ok = cfg.Language("de")
	assert.False(t, ok)
}
