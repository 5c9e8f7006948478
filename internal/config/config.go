package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigFile  = "config.yaml"
	DefaultStoragePath = ".newsflash/newsflash.db"
	DefaultRetainDays  = 30
	DefaultSince       = 24 * time.Hour
	DefaultFormat      = "terminal"
	DefaultLogLevel    = "info"
)

// Duration wraps time.Duration for YAML unmarshaling from strings like "24h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", s, err)
	}
	d.Duration = parsed
	return nil
}

type Config struct {
	Sources SourcesConfig `yaml:"sources"`
	Storage StorageConfig `yaml:"storage"`
	Notify  NotifyConfig  `yaml:"notify"`
	Output  OutputConfig  `yaml:"output"`
	Privacy PrivacyConfig `yaml:"privacy"`
	Log     LogConfig     `yaml:"log"`
}

type SourcesConfig struct {
	RSS    RSSConfig    `yaml:"rss"`
	Reddit RedditConfig `yaml:"reddit"`
	HN     HNConfig     `yaml:"hn"`
	Posts  PostsConfig  `yaml:"posts"`
}

type RSSConfig struct {
	Feeds []string `yaml:"feeds"`
}

type RedditConfig struct {
	Subreddits []string `yaml:"subreddits"`
}

type HNConfig struct {
	MinPoints int `yaml:"min_points"`
}

// PostsConfig points at a local YAML file of short posts.
type PostsConfig struct {
	File string `yaml:"file"`
}

type StorageConfig struct {
	Path       string `yaml:"path"`
	RetainDays int    `yaml:"retain_days"`
}

type NotifyConfig struct {
	Workers int      `yaml:"workers"`
	Since   Duration `yaml:"since"`
}

type OutputConfig struct {
	Format string `yaml:"format"`
	// Color is nil when unset; the terminal formatter then checks for a TTY.
	Color *bool `yaml:"color"`
}

type PrivacyConfig struct {
	Redact RedactConfig `yaml:"redact"`
}

type RedactConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Patterns []string `yaml:"patterns"`
	Links    bool     `yaml:"links"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads config.yaml from dir, applies defaults, resolves env vars, and validates.
func Load(dir string) (*Config, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("config dir is required")
	}

	path := filepath.Join(dir, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	resolveEnv(&cfg)
	resolvePaths(&cfg, dir)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath
	}
	if cfg.Storage.RetainDays == 0 {
		cfg.Storage.RetainDays = DefaultRetainDays
	}
	if cfg.Notify.Since.Duration == 0 {
		cfg.Notify.Since.Duration = DefaultSince
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = DefaultFormat
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

// resolveEnv lets NEWSFLASH_LOG_LEVEL and NEWSFLASH_DB override the file.
func resolveEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("NEWSFLASH_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("NEWSFLASH_DB")); v != "" {
		cfg.Storage.Path = v
	}
}

// resolvePaths makes a relative posts file path relative to the config dir.
func resolvePaths(cfg *Config, dir string) {
	f := cfg.Sources.Posts.File
	if f != "" && !filepath.IsAbs(f) {
		cfg.Sources.Posts.File = filepath.Join(dir, f)
	}
}

func validate(cfg *Config) error {
	hasRSS := len(cfg.Sources.RSS.Feeds) > 0
	hasReddit := len(cfg.Sources.Reddit.Subreddits) > 0
	hasHN := cfg.Sources.HN.MinPoints > 0
	hasPosts := cfg.Sources.Posts.File != ""
	if !hasRSS && !hasReddit && !hasHN && !hasPosts {
		return errors.New("sources: at least one source must be configured")
	}

	if cfg.Sources.HN.MinPoints < 0 {
		return fmt.Errorf("sources.hn.min_points: must not be negative, got %d", cfg.Sources.HN.MinPoints)
	}
	if cfg.Notify.Workers < 0 {
		return fmt.Errorf("notify.workers: must not be negative, got %d", cfg.Notify.Workers)
	}
	if cfg.Notify.Since.Duration < 0 {
		return fmt.Errorf("notify.since: must be positive, got %s", cfg.Notify.Since.Duration)
	}
	if cfg.Storage.RetainDays < 0 {
		return fmt.Errorf("storage.retain_days: must not be negative, got %d", cfg.Storage.RetainDays)
	}

	switch cfg.Output.Format {
	case "terminal", "json", "markdown", "md":
		// valid
	default:
		return fmt.Errorf("output.format: unknown format %q (want terminal, json, or markdown)", cfg.Output.Format)
	}

	if _, err := ParseLogLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	return nil
}
