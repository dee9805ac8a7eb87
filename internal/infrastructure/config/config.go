package config

import (
	"context"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIBase is the root URL of the storefront backend, also the base for
	// resolving source-relative image paths.
	APIBase          string        `env:"API_BASE,          default=http://localhost:8000"`
	PlaceholderImage string        `env:"PLACEHOLDER_IMAGE, default=/no-image.png"`
	AdminPassword    string        `env:"ADMIN_PASSWORD"`
	LogLevel         string        `env:"LOG_LEVEL,         default=info"`
	PrettyLogs       bool          `env:"PRETTY_LOGS,       default=false"`
	Port             string        `env:"PORT,              default=8080"`
	RefreshInterval  time.Duration `env:"REFRESH_INTERVAL,  default=30s"`

	Redis RedisConfig
}

type RedisConfig struct {
	// Addr left empty disables snapshot publishing.
	Addr    string `env:"REDIS_ADDR"`
	DB      int    `env:"REDIS_DB,      default=0"`
	Key     string `env:"REDIS_KEY,     default=catalog:snapshot"`
	Channel string `env:"REDIS_CHANNEL, default=catalog:snapshot"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
