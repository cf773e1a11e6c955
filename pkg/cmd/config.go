package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/dnlzrgz/housaku/pkg/store"
)

// appConfig is the root configuration shape, loaded from an optional config
// file plus environment variable overrides (HOUSAKU_FILES_INCLUDE,
// HOUSAKU_FEEDS_URLS, and so on), mirroring the predecessor's config.toml.
type appConfig struct {
	SQLiteURL       string       `mapstructure:"sqlite_url"`
	Schema          store.Schema `mapstructure:"schema"`
	Files           FilesConfig  `mapstructure:"files"`
	Feeds           FeedsConfig  `mapstructure:"feeds"`
	MaxWorkers      int          `mapstructure:"max_workers"`
	FeedConcurrency int          `mapstructure:"feed_concurrency"`
}

// FilesConfig lists the directories to crawl and the glob patterns to skip.
type FilesConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
}

// FeedsConfig lists the RSS/Atom feed URLs to poll.
type FeedsConfig struct {
	URLs []string `mapstructure:"urls"`
}

const defaultSQLiteURL = "housaku.db"

// loadConfig loads the application configuration from the path named by
// flags.ConfigPath, if any, then layers in environment variables, matching
// the predecessor's load_config precedence (file defaults, env overrides).
func loadConfig(flags *cmdFlags) (*appConfig, error) {
	v := viper.New()

	v.SetDefault("sqlite_url", defaultSQLiteURL)
	v.SetDefault("schema", string(store.SchemaFTS))
	v.SetDefault("max_workers", 0)
	v.SetDefault("feed_concurrency", 0)
	v.SetDefault("files.include", []string{})
	v.SetDefault("files.exclude", []string{})
	v.SetDefault("feeds.urls", []string{})

	if flags.ConfigPath != "" {
		v.SetConfigFile(flags.ConfigPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	v.SetEnvPrefix("housaku")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg appConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	slog.Debug("config loaded", slog.Any("config", cfg))

	return &cfg, nil
}
