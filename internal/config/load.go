package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "PREPMATE"

// keys lists every configuration key so that environment variables are
// picked up even when no config file mentions them.
var keys = []string{
	"server.port",
	"server.log_level",
	"server.shutdown_timeout_seconds",
	"database.driver",
	"database.url",
	"database.max_open_conns",
	"llm.gemini_api_key",
	"llm.model_name",
	"llm.max_retries",
	"llm.retry_delay_seconds",
	"reminder.schedule",
	"reminder.timezone",
	"reminder.batch_size",
	"reminder.due_limit",
	"reminder.interval_ms",
	"reminder.expo_push_url",
	"reminder.title",
	"review.default_limit",
	"review.max_limit",
	"habit.stats_window_days",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("llm.model_name", "gemini-2.0-flash")
	v.SetDefault("llm.max_retries", 3)
	v.SetDefault("llm.retry_delay_seconds", 2)

	v.SetDefault("reminder.schedule", "")
	v.SetDefault("reminder.timezone", "Asia/Kolkata")
	v.SetDefault("reminder.batch_size", 100)
	v.SetDefault("reminder.due_limit", 20)
	v.SetDefault("reminder.interval_ms", 100)
	v.SetDefault("reminder.expo_push_url", "https://exp.host/--/api/v2/push/send")
	v.SetDefault("reminder.title", "PrepMate Reminder 🔔")

	v.SetDefault("review.default_limit", 20)
	v.SetDefault("review.max_limit", 100)

	v.SetDefault("habit.stats_window_days", 7)
}

// Load configuration from environment variables and optionally config files.
// A .env file in the working directory is loaded first and never overrides
// variables that are already set. Environment variables take precedence over
// values from config.yaml.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
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

// Validate checks the struct tag rules of cfg.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
