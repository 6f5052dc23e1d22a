package utils

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

// UpstreamConfig controls how legislators are fetched. An empty BaseURL
// disables remote lookups; bundled snapshots keep working.
type UpstreamConfig struct {
	BaseURL       string        `env:"CITIZENHUB_API_BASE_URL"`
	APIKey        string        `env:"CITIZENHUB_API_KEY"`
	Timeout       time.Duration `env:"CITIZENHUB_API_TIMEOUT" envDefault:"12s"`
	SnapshotDir   string        `env:"CITIZENHUB_SNAPSHOT_DIR"`
	OverridesPath string        `env:"CITIZENHUB_OVERRIDES_PATH"`
}

type ServerConfig struct {
	HTTPAddr string `env:"CITIZENHUB_HTTP_ADDR" envDefault:":8080"`
	TCPAddr  string `env:"CITIZENHUB_TCP_ADDR" envDefault:":7070"`
	GrpcAddr string `env:"CITIZENHUB_GRPC_ADDR" envDefault:":9090"`
}

type AuthConfig struct {
	JWTSecret   string        `env:"CITIZENHUB_JWT_SECRET" envDefault:"dev-secret-change-me"`
	JWTIssuer   string        `env:"CITIZENHUB_JWT_ISSUER" envDefault:"citizenhub"`
	JWTDuration time.Duration `env:"CITIZENHUB_JWT_TTL" envDefault:"24h"`
	// AdminPasswordHash is a bcrypt hash; empty disables operator login.
	AdminPasswordHash string `env:"CITIZENHUB_ADMIN_PASSWORD_HASH"`
}

// DatabaseConfig locates the sqlite store.
type DatabaseConfig struct {
	Path string `env:"CITIZENHUB_DB_PATH,expand" envDefault:"${HOME}/.citizenhub/data.db"`
}

// Config groups everything the binaries read from the environment.
type Config struct {
	Upstream UpstreamConfig
	Server   ServerConfig
	Auth     AuthConfig
	Database DatabaseConfig
}

// Load parses the environment into Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// MustLoad is Load for main packages.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return cfg
}
