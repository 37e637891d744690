package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Storage drivers supported by the events collection.
const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

// Config holds the main configuration for the application.
type Config struct {
	Server    Server         `mapstructure:"server"`
	Storage   Storage        `mapstructure:"storage"`
	Reminders Reminders      `mapstructure:"reminders"`
	Email     Email          `mapstructure:"email"`
	Telegram  Telegram       `mapstructure:"telegram"`
	Retry     retry.Strategy `mapstructure:"retry"`
	Workers   struct {
		Count int `mapstructure:"count"` // number of delivery goroutines
	}
}

// Server holds HTTP server-related configuration.
type Server struct {
	HTTPPort        string        `mapstructure:"http_port"`        // HTTP address to listen on
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"` // grace period for in-flight requests
}

// Storage selects and configures the key-value backend for the events collection.
type Storage struct {
	Driver string `mapstructure:"driver"` // one of sqlite, redis, memory
	Key    string `mapstructure:"key"`    // key the whole collection is stored under
	SQLite SQLite `mapstructure:"sqlite"`
	Redis  Redis  `mapstructure:"redis"`
}

// SQLite holds the database file location.
type SQLite struct {
	Path string `mapstructure:"path"`
}

// Redis holds Redis connection parameters.
type Redis struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
}

// Reminders holds input parsing and delivery settings.
type Reminders struct {
	Timezone string `mapstructure:"timezone"` // IANA zone user input is interpreted in
	Channel  string `mapstructure:"channel"`  // log, email or telegram
	To       string `mapstructure:"to"`       // recipient for email/telegram channels
}

// Email holds SMTP configuration for sending emails.
type Email struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Telegram holds configuration for sending Telegram messages.
type Telegram struct {
	Token  string `mapstructure:"token"`
	ChatID string `mapstructure:"chat_id"`
}

// Location resolves the configured time zone, falling back to the local zone.
func (r Reminders) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.Local, nil
	}

	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", r.Timezone, err)
	}

	return loc, nil
}

// setDefaults registers fallback values so a partial config file still works.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.http_port", ":8080")
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("storage.driver", DriverSQLite)
	v.SetDefault("storage.key", "events")
	v.SetDefault("storage.sqlite.path", "events.db")

	v.SetDefault("reminders.channel", "log")

	v.SetDefault("retry.attempts", 3)
	v.SetDefault("retry.delay", 500*time.Millisecond)
	v.SetDefault("retry.backoff", 2.0)

	v.SetDefault("workers.count", 2)
}

// mustBindEnv binds critical environment variables to Viper keys.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"server.http_port": "SERVER_HTTP_PORT",

		"storage.driver":      "STORAGE_DRIVER",
		"storage.sqlite.path": "SQLITE_PATH",

		"storage.redis.address":  "REDIS_ADDRESS",
		"storage.redis.password": "REDIS_PASSWORD",
		"storage.redis.database": "REDIS_DATABASE",

		"reminders.timezone": "REMINDERS_TIMEZONE",
		"reminders.channel":  "REMINDERS_CHANNEL",
		"reminders.to":       "REMINDERS_TO",

		"email.smtp_host": "SMTP_HOST",
		"email.smtp_port": "SMTP_PORT",
		"email.username":  "SMTP_USER",
		"email.password":  "SMTP_PASS",
		"email.from":      "SMTP_FROM",

		"telegram.token":   "TELEGRAM_TOKEN",
		"telegram.chat_id": "TELEGRAM_CHAT_ID",
	}

	for key, env := range bindings {
		if err := v.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// Load reads the configuration from the given directory and environment variables.
//
// A missing config file is not an error: defaults and environment still apply.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	mustBindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

// Must loads the configuration from ./config and environment variables.
//
// It panics if configuration cannot be read or unmarshalled.
func Must() *Config {
	cfg, err := Load("./config")
	if err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to load config")
	}

	return cfg
}
