package config

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

type Backend struct {
	BaseURL string        `yaml:"base_url" env:"QKART_BACKEND_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"QKART_BACKEND_TIMEOUT" env-default:"10s"`
}

type Search struct {
	Debounce time.Duration `yaml:"debounce" env:"QKART_SEARCH_DEBOUNCE" env-default:"800ms"`
}

type Session struct {
	Store     string `yaml:"store" env:"QKART_SESSION_STORE" env-default:"file"`
	Path      string `yaml:"path" env:"QKART_SESSION_PATH" env-default:".qkart/session.json"`
	RedisURL  string `yaml:"redis_url" env:"QKART_SESSION_REDIS_URL"`
	Namespace string `yaml:"namespace" env:"QKART_SESSION_NAMESPACE" env-default:"default"`
}

type Metrics struct {
	Addr string `yaml:"address" env:"QKART_METRICS_ADDR"`
}

type Otel struct {
	ServiceName      string  `yaml:"SERVICE_NAME" env:"OTEL_SERVICE_NAME" env-default:"qkart-storefront"`
	ExporterEndpoint string  `yaml:"EXPORTER_ENDPOINT" env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplerRatio     float64 `yaml:"SAMPLER_RATIO" env:"OTEL_SAMPLER_RATIO" env-default:"1.0"`
}

type Config struct {
	Env      string  `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string  `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFile  string  `yaml:"log_file" env:"LOG_FILE"`
	Backend  Backend `yaml:"backend"`
	Search   Search  `yaml:"search"`
	Session  Session `yaml:"session"`
	Metrics  Metrics `yaml:"metrics"`
	Otel     Otel    `yaml:"otel"`
}

func MustLoad() *Config {

	// a missing .env is fine, the process environment is used as is
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file loaded", slog.String("error", err.Error()))
	}

	flags := flag.String("config", "", "path to the storefront config file")

	flag.Parse()

	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {

		configPath = *flags

		if configPath == "" {

			log.Fatal("Config path is not set")

		}

	}

	cfg, err := LoadConfigFromPath(configPath)
	if err != nil {
		log.Fatalf("can not read config file: %s", err.Error())
	}

	return cfg

}

func LoadConfigFromPath(configPath string) (*Config, error) {

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) Validate() error {

	c.Backend.BaseURL = strings.TrimRight(c.Backend.BaseURL, "/")

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base_url is required")
	}

	switch c.Session.Store {
	case SessionStoreFile:
		if c.Session.Path == "" {
			return fmt.Errorf("session path is required for the file store")
		}
	case SessionStoreRedis:
		if c.Session.RedisURL == "" {
			return fmt.Errorf("session redis_url is required for the redis store")
		}
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}

	if c.Search.Debounce <= 0 {
		return fmt.Errorf("search debounce must be positive, got %s", c.Search.Debounce)
	}

	return nil
}

// SlogLevel maps the configured level name onto slog; unknown names mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
