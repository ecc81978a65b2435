package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/trivialive/trivia-server/internal/config"
	"github.com/trivialive/trivia-server/internal/game"
	"github.com/trivialive/trivia-server/internal/logging"
	"github.com/trivialive/trivia-server/internal/metrics"
	"github.com/trivialive/trivia-server/internal/question"
	"github.com/trivialive/trivia-server/internal/server"
	ws "github.com/trivialive/trivia-server/pkg/http/ws"
)

// Application aggregates shared infrastructure and the HTTP server.
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	pool  *pgxpool.Pool
	redis *redis.Client
	http  *http.Server
}

// New bootstraps config, logger, the question bank, the room registry and
// session machine, and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Msg("starting application bootstrap")

	var (
		pool        *pgxpool.Pool
		redisClient *redis.Client
	)

	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
	}

	var bank question.Bank
	switch cfg.Questions.Source {
	case "postgres":
		var err error
		pool, err = pgxpool.New(ctx, cfg.Postgres.ConnString())
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		bank = question.NewPostgresBank(pool)
		if redisClient != nil {
			bank = question.NewCachedBank(bank, redisClient, cfg.Questions.CacheTTL)
		}
	case "file":
		fileBank, err := question.NewFileBank(cfg.Questions.Path)
		if err != nil {
			return nil, err
		}
		bank = fileBank
	default:
		return nil, fmt.Errorf("unknown question source %q", cfg.Questions.Source)
	}

	// The bank is loaded once at startup; the core consumes a read-only
	// ordered collection.
	questions, err := bank.AllQuestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}
	logger.Info().Int("questions", len(questions)).Str("source", cfg.Questions.Source).Msg("question bank loaded")

	gameMetrics := metrics.New()
	registry := game.NewRegistry(nil)
	gameSvc := game.NewService(registry, questions, game.Options{
		DefaultQuestionCount: cfg.Game.DefaultQuestionCount,
	}, gameMetrics, logger)

	hub := ws.NewHub(logger)
	handler := game.NewHandler(gameSvc, hub, gameMetrics, logger)

	apiServer := server.NewHTTPServer(cfg, logger, pool, redisClient, handler.HandleWebSocket)

	return &Application{
		cfg:    cfg,
		logger: logger,
		pool:   pool,
		redis:  redisClient,
		http:   apiServer,
	}, nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	if a.pool != nil {
		a.pool.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error().Err(err).Msg("redis shutdown error")
		}
	}

	a.logger.Info().Msg("shutdown complete")
	return nil
}
