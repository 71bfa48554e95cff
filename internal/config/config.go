package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	PayPal   PayPalConfig   `koanf:"paypal"`
	Mailer   MailerConfig   `koanf:"mailer"`
	Tokens   TokenConfig    `koanf:"tokens"`
	Logger   LoggerConfig   `koanf:"logger"`
	Worker   WorkerConfig   `koanf:"worker"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

type DatabaseConfig struct {
	Host            string        `koanf:"host" validate:"required"`
	Port            int           `koanf:"port" validate:"required"`
	User            string        `koanf:"user" validate:"required"`
	Password        string        `koanf:"password" validate:"required"`
	Name            string        `koanf:"name" validate:"required"`
	SSLMode         string        `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int           `koanf:"max_open_conns" validate:"required"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time" validate:"required"`
}

// PayPalConfig holds the IPN verification settings. BaseURL is the
// provider's verification endpoint; AccountAddress is our merchant receiver
// address; ItemName is the configured subscription product name.
type PayPalConfig struct {
	BaseURL             string        `koanf:"base_url" validate:"required"`
	AccountAddress      string        `koanf:"account_address" validate:"required"`
	ItemName            string        `koanf:"item_name"`
	VerificationTimeout time.Duration `koanf:"verification_timeout" validate:"required"`
}

type MailerConfig struct {
	Host        string `koanf:"host" validate:"required"`
	Port        int    `koanf:"port" validate:"required"`
	FromAddress string `koanf:"from_address" validate:"required"`
}

type TokenConfig struct {
	Validity time.Duration `koanf:"validity" validate:"required"`
}

type LoggerConfig struct {
	Level string `koanf:"level"`
}

type WorkerConfig struct {
	Interval  time.Duration `koanf:"interval" validate:"required"`
	BatchSize int           `koanf:"batch_size" validate:"required"`
}

func (c LoggerConfig) NewLogger() *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

func (c Primary) IsDevelopment() bool {
	return c.Env == "development"
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.Provider("FUNDRAISING_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "FUNDRAISING_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}
