package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"storyhub/pkg/logger"
)

type AppConfig struct {
	Port   string `env:"PORT" envDefault:"8080"`
	DBPath string `env:"DB_PATH" envDefault:"storyhub.db"`

	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string `env:"LOG_FORMAT" envDefault:"text"`
	LogOutput     string `env:"LOG_OUTPUT" envDefault:"stdout"`
	LogPath       string `env:"LOG_PATH" envDefault:"./logs"`
	LogMaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"`
	LogMaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"5"`
	LogMaxAge     int    `env:"LOG_MAX_AGE" envDefault:"30"`
	LogCompress   bool   `env:"LOG_COMPRESS" envDefault:"true"`

	PlaceholderURL string `env:"ILLUSTRATION_PLACEHOLDER_URL" envDefault:"https://picsum.photos/seed/%s/400/300"`

	MTEndpoint string `env:"MT_ENDPOINT"`
	MTAPIKey   string `env:"MT_API_KEY"`
	MTModel    string `env:"MT_MODEL" envDefault:"gpt-4o-mini"`
	// MTBudget caps the machine translation time spent on one import or parse.
	MTBudget time.Duration `env:"MT_BUDGET" envDefault:"60s"`

	ImportAllowedDomains []string `env:"IMPORT_ALLOWED_DOMAINS" envSeparator:","`
	ImportMaxBytes       int64    `env:"IMPORT_MAX_BYTES" envDefault:"2097152"`

	DevLogin bool `env:"DEV_LOGIN" envDefault:"false"`
}

// Load reads .env files (when present) into the environment and parses it.
func Load(files ...string) (AppConfig, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return AppConfig{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if strings.Count(cfg.PlaceholderURL, "%s") != 1 {
		return AppConfig{}, fmt.Errorf("ILLUSTRATION_PLACEHOLDER_URL must contain exactly one %%s, got %q", cfg.PlaceholderURL)
	}
	return cfg, nil
}

func (c AppConfig) Log() logger.Config {
	return logger.Config{
		Level:      c.LogLevel,
		Format:     c.LogFormat,
		Output:     c.LogOutput,
		Path:       c.LogPath,
		MaxSize:    c.LogMaxSize,
		MaxBackups: c.LogMaxBackups,
		MaxAge:     c.LogMaxAge,
		Compress:   c.LogCompress,
	}
}

// MTEnabled is true when a machine translation endpoint is configured.
func (c AppConfig) MTEnabled() bool { return c.MTEndpoint != "" }
