package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string          `mapstructure:"environment"`
	Server      ServerConfig    `mapstructure:"server"`
	Database    DatabaseConfig  `mapstructure:"database"`
	Log         LogConfig       `mapstructure:"log"`
	Bandit      BanditConfig    `mapstructure:"bandit"`
	Activity    ActivityConfig  `mapstructure:"activity"`
	Cache       CacheConfig     `mapstructure:"cache"`
	Telemetry   TelemetryConfig `mapstructure:"telemetry"`
	Catalog     CatalogConfig   `mapstructure:"catalog"`
}

type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	APIPath        string        `mapstructure:"api_path"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	TrustedProxies []string      `mapstructure:"trusted_proxies"`
	RateLimit      float64       `mapstructure:"rate_limit"` // requests/sec per IP
	RateLimitBurst int           `mapstructure:"rate_limit_burst"`
}

type DatabaseConfig struct {
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DBName       string `mapstructure:"dbname"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

func (d DatabaseConfig) MigrationDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

// CategoryTuning holds the LinUCB (alpha, beta) pair for one bandit category.
type CategoryTuning struct {
	Alpha float64 `mapstructure:"alpha"`
	Beta  float64 `mapstructure:"beta"`
}

// BanditConfig exposes per-category LinUCB tuning, so the alternate tuning
// noted in spec.md's design notes can be selected without a code change.
// RidgeLambda, HistoryCap and HistoryTrimTo are loaded but not passed to the
// bandit, whose ridge term and history bounds are fixed constants.
type BanditConfig struct {
	VMP           CategoryTuning `mapstructure:"vmp"`
	AU            CategoryTuning `mapstructure:"au"`
	NU            CategoryTuning `mapstructure:"nu"`
	RidgeLambda   float64        `mapstructure:"ridge_lambda"`
	HistoryCap    int            `mapstructure:"history_cap"`
	HistoryTrimTo int            `mapstructure:"history_trim_to"`
	ContextDim    int            `mapstructure:"context_dim"`
}

// ActivityConfig controls the write-buffered activity cache and its drain.
type ActivityConfig struct {
	FlushIntervalSeconds     int `mapstructure:"flush_interval_seconds"`
	FlushThresholdActivities int `mapstructure:"flush_threshold_activities"`
	ActivityTTLSeconds       int `mapstructure:"activity_ttl_seconds"`
	SessionTTLSeconds        int `mapstructure:"session_ttl_seconds"`
}

type CacheConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type TelemetryConfig struct {
	Disabled      bool          `mapstructure:"disabled"`
	DSN           string        `mapstructure:"dsn"`
	Database      string        `mapstructure:"database"`
	BatchSize     int           `mapstructure:"batch_size"`
	FlushInterval time.Duration `mapstructure:"flush_interval"`
}

type CatalogConfig struct {
	BlacklistPath         string `mapstructure:"blacklist_path"`
	ItemRecencyWindowDays int    `mapstructure:"item_recency_window_days"`
	FlowRecencyWindowDays int    `mapstructure:"flow_recency_window_days"`
	ReloadTimeoutSeconds  int    `mapstructure:"reload_timeout_seconds"`
}

// Load reads configuration from file or environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("environment", "development")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.api_path", "/api")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_limit_burst", 40)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "feedcore")
	v.SetDefault("database.password", "feedcore_dev_password")
	v.SetDefault("database.dbname", "feedcore")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("bandit.vmp.alpha", 1.5)
	v.SetDefault("bandit.vmp.beta", 0.8)
	v.SetDefault("bandit.au.alpha", 1.3)
	v.SetDefault("bandit.au.beta", 0.7)
	v.SetDefault("bandit.nu.alpha", 1.8)
	v.SetDefault("bandit.nu.beta", 0.9)
	v.SetDefault("bandit.ridge_lambda", 1e-3)
	v.SetDefault("bandit.history_cap", 1000)
	v.SetDefault("bandit.history_trim_to", 500)
	v.SetDefault("bandit.context_dim", 18)

	v.SetDefault("activity.flush_interval_seconds", 900)
	v.SetDefault("activity.flush_threshold_activities", 50)
	v.SetDefault("activity.activity_ttl_seconds", 86400)
	v.SetDefault("activity.session_ttl_seconds", 3600)

	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)

	v.SetDefault("telemetry.disabled", true)
	v.SetDefault("telemetry.dsn", "clickhouse://localhost:9000")
	v.SetDefault("telemetry.database", "feedcore")
	v.SetDefault("telemetry.batch_size", 200)
	v.SetDefault("telemetry.flush_interval", 5*time.Second)

	v.SetDefault("catalog.blacklist_path", "./data/blacklist.txt")
	v.SetDefault("catalog.item_recency_window_days", 360)
	v.SetDefault("catalog.flow_recency_window_days", 90)
	v.SetDefault("catalog.reload_timeout_seconds", 30)

	v.SetEnvPrefix("FEED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// ParseRetentionDuration parses a retention duration string like "7d", "24h", "30m".
// Supports "d" suffix for days, otherwise falls back to time.ParseDuration.
func ParseRetentionDuration(s string) (time.Duration, error) {
	if len(s) == 0 {
		return 7 * 24 * time.Hour, nil
	}
	if daysStr, ok := strings.CutSuffix(s, "d"); ok {
		var days int
		if _, err := fmt.Sscanf(daysStr, "%d", &days); err != nil {
			return 0, fmt.Errorf("invalid day duration %q: %w", s, err)
		}
		return time.Duration(days) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	return d, nil
}
