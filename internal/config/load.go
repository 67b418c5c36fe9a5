package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// NLANG_DATABASE_URL for database.url.
const EnvPrefix = "NLANG"

// keys lists every configuration key so that environment variables are
// honoured even when no config file mentions the key.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout",
	"database.driver",
	"database.url",
	"database.max_open_conns",
	"database.max_idle_conns",
	"database.conn_max_lifetime",
	"database.tx_max_retries",
	"database.tx_retry_delay",
	"database.auto_migrate",
	"llm.gemini_api_key",
	"llm.model_name",
	"llm.prompt_template_path",
	"llm.max_retries",
	"llm.retry_delay_seconds",
	"llm.max_concurrency",
	"srs.success_multiplier",
	"srs.min_interval_days",
	"srs.failure_interval_days",
	"task.worker_count",
	"task.queue_size",
	"task.stuck_task_age_minutes",
	"scheduler.enabled",
	"scheduler.digest_interval",
}

// Options controls where Load looks for configuration.
type Options struct {
	// ConfigPaths are directories searched for config.yaml. Defaults to ".".
	ConfigPaths []string

	// EnvFiles are dotenv files loaded into the process environment. Missing
	// files are ignored. Defaults to ".env".
	EnvFiles []string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("database.driver", DriverSQLite)
	v.SetDefault("database.url", "file:nlang.db")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.tx_max_retries", 5)
	v.SetDefault("database.tx_retry_delay", "10ms")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)
	v.SetDefault("llm.max_concurrency", 4)

	v.SetDefault("task.worker_count", 2)
	v.SetDefault("task.queue_size", 100)
	v.SetDefault("task.stuck_task_age_minutes", 30)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.digest_interval", "1h")
}

// Load reads configuration with default Options.
func Load() (*Config, error) {
	return LoadWithOptions(Options{})
}

// LoadWithOptions reads, merges and validates configuration.
func LoadWithOptions(opts Options) (*Config, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// godotenv never overrides variables that are already set.
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	paths := opts.ConfigPaths
	if len(paths) == 0 {
		paths = []string{"."}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// MinDigestInterval is the shortest accepted scheduler.digest_interval.
const MinDigestInterval = time.Minute

// Validate checks cfg against its struct tags and cross-field rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Scheduler.Enabled && cfg.Scheduler.DigestInterval < MinDigestInterval {
		return fmt.Errorf("invalid configuration: scheduler.digest_interval must be at least %s", MinDigestInterval)
	}
	return nil
}
