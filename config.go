package main

import (
	"fmt"
	"log"
	"sort"

	"github.com/spf13/viper"
)

// Language tiers.
const (
	TierPrimary   = "primary"
	TierSecondary = "secondary"
)

// Publishing strategies.
const (
	StrategyAll     = "all"
	StrategyPrimary = "primary"
)

// Marker files read (never written) by the pipeline. Their presence halts
// publishing; placing and removing them is an operator action.
const (
	PauseMarker     = ".publishing-paused"
	SkipTodayMarker = ".skip-today"
)

// Language describes one configured content language.
type Language struct {
	Code     string `mapstructure:"code"`
	Name     string `mapstructure:"name"`
	Priority int    `mapstructure:"priority"`
	Tier     string `mapstructure:"tier"`
}

// PublishingConfig is the publishing policy, loaded once per invocation and
// never mutated by the pipeline.
type PublishingConfig struct {
	Strategy             string `mapstructure:"strategy"`
	MaxPerLanguagePerDay int    `mapstructure:"max_per_language_per_day"`
	SkipWeekends         bool   `mapstructure:"skip_weekends"`
	MinBuffer            int    `mapstructure:"min_buffer"`
	CriticalBuffer       int    `mapstructure:"critical_buffer"`
	PublishTime          string `mapstructure:"publish_time"` // advisory only
}

// OutputConfig controls CLI output formatting.
type OutputConfig struct {
	Colors bool `mapstructure:"colors"`
}

// Config is the complete pressctl configuration.
type Config struct {
	ContentDir string           `mapstructure:"content_dir"`
	Languages  []Language       `mapstructure:"languages"`
	Publishing PublishingConfig `mapstructure:"publishing"`
	Output     OutputConfig     `mapstructure:"output"`
}

// LoadConfig reads .pressctl.yaml (or the file given via --config) plus
// PRESSCTL_* environment variables. A missing or unparseable config file
// falls back to the two-language default rather than aborting; only an
// invalid loaded configuration is fatal.
func LoadConfig(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".pressctl")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/pressctl")
	}

	v.SetEnvPrefix("PRESSCTL")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: config file unreadable (%v), using defaults", err)
			return DefaultConfig(), nil
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Printf("Warning: config file invalid (%v), using defaults", err)
		return DefaultConfig(), nil
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultConfig().Languages
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("content_dir", "content")
	v.SetDefault("publishing.strategy", StrategyAll)
	v.SetDefault("publishing.max_per_language_per_day", 1)
	v.SetDefault("publishing.skip_weekends", true)
	v.SetDefault("publishing.min_buffer", 5)
	v.SetDefault("publishing.critical_buffer", 2)
	v.SetDefault("publishing.publish_time", "09:00")
	v.SetDefault("output.colors", true)
}

// DefaultConfig is the hardcoded two-language fallback used when no config
// source is available.
func DefaultConfig() *Config {
	return &Config{
		ContentDir: "content",
		Languages: []Language{
			{Code: "en", Name: "English", Priority: 1, Tier: TierPrimary},
			{Code: "fr", Name: "Français", Priority: 2, Tier: TierPrimary},
		},
		Publishing: PublishingConfig{
			Strategy:             StrategyAll,
			MaxPerLanguagePerDay: 1,
			SkipWeekends:         true,
			MinBuffer:            5,
			CriticalBuffer:       2,
			PublishTime:          "09:00",
		},
		Output: OutputConfig{Colors: true},
	}
}

func validateConfig(cfg *Config) error {
	seen := make(map[string]bool, len(cfg.Languages))
	for _, lang := range cfg.Languages {
		if lang.Code == "" {
			return fmt.Errorf("language with empty code")
		}
		if seen[lang.Code] {
			return fmt.Errorf("duplicate language code %q", lang.Code)
		}
		seen[lang.Code] = true
	}

	switch cfg.Publishing.Strategy {
	case StrategyAll, StrategyPrimary:
	default:
		return fmt.Errorf("invalid strategy %q (must be all or primary)", cfg.Publishing.Strategy)
	}

	if cfg.Publishing.MaxPerLanguagePerDay < 1 {
		log.Printf("Warning: max_per_language_per_day is %d, defaulting to 1 (minimum)", cfg.Publishing.MaxPerLanguagePerDay)
		cfg.Publishing.MaxPerLanguagePerDay = 1
	}

	return nil
}

// LanguagesByPriority returns the configured languages sorted by priority
// (lower value first). Equal priorities keep configuration order.
func (c *Config) LanguagesByPriority() []Language {
	langs := make([]Language, len(c.Languages))
	copy(langs, c.Languages)
	sort.SliceStable(langs, func(i, j int) bool {
		return langs[i].Priority < langs[j].Priority
	})
	return langs
}

// TargetLanguages returns the languages a publish run covers, honoring the
// configured strategy, in priority order.
func (c *Config) TargetLanguages() []Language {
	langs := c.LanguagesByPriority()
	if c.Publishing.Strategy != StrategyPrimary {
		return langs
	}
	var primary []Language
	for _, lang := range langs {
		if lang.Tier == TierPrimary {
			primary = append(primary, lang)
		}
	}
	return primary
}

// Language looks up a configured language by code.
func (c *Config) Language(code string) (Language, bool) {
	for _, lang := range c.Languages {
		if lang.Code == code {
			return lang, true
		}
	}
	return Language{}, false
}
