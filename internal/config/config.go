package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	LLM       LLMConfig       `mapstructure:"llm"`
	SRS       SRSConfig       `mapstructure:"srs"`
	Task      TaskConfig      `mapstructure:"task" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DatabaseConfig contains connection and transaction settings.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required"`

	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"min=1,max=1000"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"min=0,max=100"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"min=0"`

	// TxMaxRetries bounds how often a transaction that hit a serialization
	// conflict is re-run before the error surfaces.
	TxMaxRetries uint64        `mapstructure:"tx_max_retries" validate:"max=20"`
	TxRetryDelay time.Duration `mapstructure:"tx_retry_delay" validate:"min=0"`

	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// LLMConfig contains translation model settings. An empty API key disables
// machine translation; sentences must then be created with explicit texts.
type LLMConfig struct {
	GeminiAPIKey       string `mapstructure:"gemini_api_key"`
	ModelName          string `mapstructure:"model_name" validate:"required_with=GeminiAPIKey"`
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
	MaxRetries         int    `mapstructure:"max_retries" validate:"min=0,max=10"`
	RetryDelaySeconds  int    `mapstructure:"retry_delay_seconds" validate:"min=0,max=60"`
	MaxConcurrency     int    `mapstructure:"max_concurrency" validate:"min=1,max=32"`
}

// Enabled reports whether a translator should be constructed.
func (c LLMConfig) Enabled() bool {
	return c.GeminiAPIKey != ""
}

// SRSConfig overrides scheduling policy constants. Zero keeps the default.
type SRSConfig struct {
	SuccessMultiplier   int `mapstructure:"success_multiplier" validate:"min=0"`
	MinIntervalDays     int `mapstructure:"min_interval_days" validate:"min=0"`
	FailureIntervalDays int `mapstructure:"failure_interval_days" validate:"min=0"`
}

// TaskConfig contains background task runner settings.
type TaskConfig struct {
	WorkerCount         int `mapstructure:"worker_count" validate:"required,min=1,max=64"`
	QueueSize           int `mapstructure:"queue_size" validate:"required,min=1"`
	StuckTaskAgeMinutes int `mapstructure:"stuck_task_age_minutes" validate:"required,min=1"`
}

// SchedulerConfig contains settings of the periodic due digest job.
type SchedulerConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	DigestInterval time.Duration `mapstructure:"digest_interval" validate:"min=0"`
}
