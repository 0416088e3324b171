package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

const (
	envPrefix     = "SCORE_TRACKER"
	configFileEnv = "SCORE_TRACKER_CONFIG"

	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// ScheduleParser accepts standard five-field specs, an optional leading
// seconds field and descriptors such as @daily or @every 1h.
var ScheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config keeps runtime settings for the tracker.
type Config struct {
	DataFile         string
	Storage          string
	DatabaseURL      string
	ArchiveSchedule  string
	LogLevel         string
	LogFormat        string
	ChartWidth       int
	ChartHeight      int
	DefaultDecayRate float64
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_file", "scores_data.json")
	v.SetDefault("storage", StorageJSON)
	v.SetDefault("database_url", "scores_archive.db")
	v.SetDefault("archive_schedule", "@every 24h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("chart_width", 1000)
	v.SetDefault("chart_height", 600)
	v.SetDefault("default_decay_rate", 0.90)
}

// Load reads configuration from defaults, an optional config file named by
// SCORE_TRACKER_CONFIG, and SCORE_TRACKER_* environment variables, in
// increasing order of precedence.
func Load() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if path := strings.TrimSpace(os.Getenv(configFileEnv)); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
	}

	cfg := Config{
		DataFile:         strings.TrimSpace(v.GetString("data_file")),
		Storage:          strings.ToLower(strings.TrimSpace(v.GetString("storage"))),
		DatabaseURL:      strings.TrimSpace(v.GetString("database_url")),
		ArchiveSchedule:  strings.TrimSpace(v.GetString("archive_schedule")),
		LogLevel:         strings.TrimSpace(v.GetString("log_level")),
		LogFormat:        strings.ToLower(strings.TrimSpace(v.GetString("log_format"))),
		ChartWidth:       v.GetInt("chart_width"),
		ChartHeight:      v.GetInt("chart_height"),
		DefaultDecayRate: v.GetFloat64("default_decay_rate"),
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageJSON:
		if c.DataFile == "" {
			return fmt.Errorf("data file is required for %s storage", StorageJSON)
		}
	case StorageSQLite:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database url is required for %s storage", StorageSQLite)
		}
	default:
		return fmt.Errorf("unknown storage %q (want %s or %s)", c.Storage, StorageJSON, StorageSQLite)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}
	if c.DefaultDecayRate < 0.01 || c.DefaultDecayRate > 1 {
		return fmt.Errorf("default decay rate %v out of range", c.DefaultDecayRate)
	}
	if c.ArchiveSchedule != "" {
		if _, err := ScheduleParser.Parse(c.ArchiveSchedule); err != nil {
			return fmt.Errorf("archive schedule %q: %w", c.ArchiveSchedule, err)
		}
	}
	return nil
}
