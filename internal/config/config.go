package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration for the trivia server.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-server"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	StaticDir               string        `env:"STATIC_DIR" envDefault:"public"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Questions Questions
	Postgres  Postgres
	Redis     Redis
	Game      Game
}

// Questions selects where the question bank is loaded from at startup.
type Questions struct {
	// Source is "file" or "postgres".
	Source string `env:"QUESTION_SOURCE" envDefault:"file"`
	Path   string `env:"QUESTIONS_PATH" envDefault:"data/questions.json"`
	// CacheTTL governs the optional Redis cache in front of the postgres
	// source; zero falls back to the package default.
	CacheTTL time.Duration `env:"QUESTION_CACHE_TTL" envDefault:"10m"`
}

// Postgres captures connection info for the SQL question bank.
// Only required when QUESTION_SOURCE=postgres.
type Postgres struct {
	Host     string `env:"PG_HOST"`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER"`
	Password string `env:"PG_PASSWORD"`
	Database string `env:"PG_DATABASE"`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
}

// Redis holds cache configuration. Optional; empty Addr disables caching.
type Redis struct {
	Addr     string `env:"REDIS_ADDR"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	PoolSize int    `env:"REDIS_POOL_SIZE" envDefault:"20"`
}

// Game groups gameplay defaults.
type Game struct {
	DefaultQuestionCount int `env:"DEFAULT_QUESTION_COUNT" envDefault:"10"`
}

// ConnString renders a pgx-compatible DSN.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s pool_max_conns=10",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Questions.Source == "postgres" && cfg.Postgres.Host == "" {
		return nil, fmt.Errorf("QUESTION_SOURCE=postgres requires PG_HOST")
	}
	return cfg, nil
}
