package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Engine   EngineConfig
	Jobs     JobsConfig
}

type ServerConfig struct {
	Port         string        `envconfig:"SERVER_PORT" default:"8080"`
	Env          string        `envconfig:"APP_ENV" default:"development"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	DSN             string        `envconfig:"DB_DSN" default:"inovocb:inovocb@tcp(localhost:3306)/inovocb?charset=utf8mb4&parseTime=True&loc=Local"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"10"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"100"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"1h"`
}

type JWTConfig struct {
	AccessSecret string        `envconfig:"JWT_ACCESS_SECRET" default:"change-me-in-production"`
	AccessExpiry time.Duration `envconfig:"JWT_ACCESS_EXPIRY" default:"15m"`
	Issuer       string        `envconfig:"JWT_ISSUER" default:"inovocb"`
}

// EngineConfig tunes the engine itself, not any specific reward program.
// Program economics (points per dollar, limits) live in the rewards_program row.
type EngineConfig struct {
	TxRetries       int           `envconfig:"ENGINE_TX_RETRIES" default:"3"`
	PointsTTL       time.Duration `envconfig:"ENGINE_POINTS_TTL" default:"8760h"`
	LeaderboardSize int           `envconfig:"ENGINE_LEADERBOARD_SIZE" default:"25"`
}

type JobsConfig struct {
	Timezone     string `envconfig:"JOBS_TIMEZONE" default:"UTC"`
	RolloverSpec string `envconfig:"JOBS_ROLLOVER_SPEC" default:"0 0 * * *"`
	ExpirySpec   string `envconfig:"JOBS_EXPIRY_SPEC" default:"0 * * * *"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Engine.TxRetries < 1 {
		return nil, fmt.Errorf("config: ENGINE_TX_RETRIES must be >= 1")
	}
	return &cfg, nil
}
