package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"creative-approval-engine/internal/engine"
)

// Config holds all configuration (file + env overrides)
type Config struct {
	Server struct {
		Addr                  string   `mapstructure:"addr" validate:"required"`
		LogLevel              string   `mapstructure:"log_level"`
		LogFormat             string   `mapstructure:"log_format" validate:"omitempty,oneof=console json"`
		CORSOrigins           []string `mapstructure:"cors_origins"`
		RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds" validate:"gt=0"`
	} `mapstructure:"server"`

	Image struct {
		MaxFileBytes   int64   `mapstructure:"max_file_bytes" validate:"gt=0"`
		MinWidth       int     `mapstructure:"min_width" validate:"gt=0"`
		MinHeight      int     `mapstructure:"min_height" validate:"gt=0"`
		MaxWidth       int     `mapstructure:"max_width" validate:"gtfield=MinWidth"`
		MaxHeight      int     `mapstructure:"max_height" validate:"gtfield=MinHeight"`
		MinAspectRatio float64 `mapstructure:"min_aspect_ratio" validate:"gt=0"`
		MaxAspectRatio float64 `mapstructure:"max_aspect_ratio" validate:"gtfield=MinAspectRatio"`
		MinContrast    float64 `mapstructure:"min_contrast" validate:"gte=0"`
	} `mapstructure:"image"`

	Keywords struct {
		File string `mapstructure:"file"`
	} `mapstructure:"keywords"`

	Postgres struct {
		Host         string `mapstructure:"host"`
		Port         int    `mapstructure:"port"`
		User         string `mapstructure:"user"`
		Password     string `mapstructure:"password"`
		DBName       string `mapstructure:"db_name"`
		SSLMode      string `mapstructure:"ssl_mode"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
		MaxIdleConns int    `mapstructure:"max_idle_conns"`
	} `mapstructure:"postgres"`

	Listener struct {
		ReconnectSeconds int `mapstructure:"reconnect_seconds"`
	} `mapstructure:"listener"`
}

var validate = validator.New()

// Load reads configs/application.yaml (optional) and APP_* environment
// variables, e.g. APP_IMAGE_MAX_WIDTH. It panics on invalid configuration.
func Load() Config {
	cfg, err := LoadFrom("configs")
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadFrom is Load with an explicit config directory.
func LoadFrom(dir string) (Config, error) {
	v := viper.New()
	v.SetConfigName("application")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	setDefaults(v)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.log_format", "console")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout_seconds", 10)

	th := engine.DefaultThresholds()
	v.SetDefault("image.max_file_bytes", 10<<20)
	v.SetDefault("image.min_width", th.MinWidth)
	v.SetDefault("image.min_height", th.MinHeight)
	v.SetDefault("image.max_width", th.MaxWidth)
	v.SetDefault("image.max_height", th.MaxHeight)
	v.SetDefault("image.min_aspect_ratio", th.MinAspectRatio)
	v.SetDefault("image.max_aspect_ratio", th.MaxAspectRatio)
	v.SetDefault("image.min_contrast", th.MinContrast)

	v.SetDefault("keywords.file", "")

	v.SetDefault("postgres.host", "")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db_name", "")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 2)

	v.SetDefault("listener.reconnect_seconds", 5)
}

// Thresholds converts the image section into engine thresholds.
func (c Config) Thresholds() engine.Thresholds {
	return engine.Thresholds{
		MinWidth:       c.Image.MinWidth,
		MinHeight:      c.Image.MinHeight,
		MaxWidth:       c.Image.MaxWidth,
		MaxHeight:      c.Image.MaxHeight,
		MinAspectRatio: c.Image.MinAspectRatio,
		MaxAspectRatio: c.Image.MaxAspectRatio,
		MinContrast:    c.Image.MinContrast,
	}
}

// PostgresEnabled reports whether keyword tables come from the database.
func (c Config) PostgresEnabled() bool { return c.Postgres.Host != "" }

func (c Config) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Postgres.User,
		c.Postgres.Password,
		c.Postgres.Host,
		c.Postgres.Port,
		c.Postgres.DBName,
		c.Postgres.SSLMode,
	)
}

func (c Config) Backoff() time.Duration { return time.Duration(c.Listener.ReconnectSeconds) * time.Second }

func (c Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}
