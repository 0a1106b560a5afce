package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
	Reminder ReminderConfig `mapstructure:"reminder" validate:"required"`
	Review   ReviewConfig   `mapstructure:"review"   validate:"required"`
	Habit    HabitConfig    `mapstructure:"habit"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the store backend: "postgres" or "sqlite3".
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite3"`
	// URL is a postgres connection URL or a sqlite3 DSN.
	URL string `mapstructure:"url" validate:"required"`

	MaxOpenConns int `mapstructure:"max_open_conns" validate:"gte=1"`
}

// LLMConfig contains all LLM integration related settings.
// An empty GeminiAPIKey disables the study assistant endpoints.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"          validate:"required"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"gte=0,lte=10"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"gte=0"`
}

// ReminderConfig controls the reminder sweep.
type ReminderConfig struct {
	// Schedule is a cron expression with a seconds field. Empty disables the
	// in-process sweep.
	Schedule string `mapstructure:"schedule"`
	Timezone string `mapstructure:"timezone" validate:"required"`

	BatchSize   int    `mapstructure:"batch_size"    validate:"gt=0,lte=1000"`
	DueLimit    int    `mapstructure:"due_limit"     validate:"gt=0"`
	IntervalMS  int    `mapstructure:"interval_ms"   validate:"gte=0"`
	ExpoPushURL string `mapstructure:"expo_push_url" validate:"required,url"`
	Title       string `mapstructure:"title"         validate:"required"`
}

// ReviewConfig holds due-set limits.
type ReviewConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"gt=0"`
	MaxLimit     int `mapstructure:"max_limit"     validate:"gtefield=DefaultLimit"`
}

// HabitConfig holds habit statistics settings.
type HabitConfig struct {
	StatsWindowDays int `mapstructure:"stats_window_days" validate:"gt=0,lte=365"`
}
