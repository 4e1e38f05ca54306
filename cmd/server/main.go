// Command server runs the blog API.
//
// @title                       Blog API
// @version                     1.0
// @description                 JWT secured blog backend: categories, posts and comments.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	_ "github.com/blogplatform/blog-api/docs"
	"github.com/blogplatform/blog-api/internal/api"
	"github.com/blogplatform/blog-api/internal/api/handler"
	"github.com/blogplatform/blog-api/internal/auth"
	"github.com/blogplatform/blog-api/internal/core/ports"
	"github.com/blogplatform/blog-api/internal/core/service"
	"github.com/blogplatform/blog-api/internal/infrastructure/db/redis"
	"github.com/blogplatform/blog-api/internal/infrastructure/queue"
	"github.com/blogplatform/blog-api/internal/pkg/config"
	"github.com/blogplatform/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallback := logger.New(logger.Options{})
		fallback.Fatal().Err(err).Msg("invalid configuration")
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "blog-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	key, err := cfg.SigningKey()
	if err != nil {
		return err
	}
	codec, err := auth.NewCodec(key, cfg.TokenTTL())
	if err != nil {
		return err
	}

	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			log.Warn().Err(err).Msg("failed to close storage")
		}
	}()

	ready := map[string]handler.Pinger{cfg.StorageDriver: store.pinger}

	var limiter ports.LoginLimiter
	if cfg.Redis.Addr != "" {
		client, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		defer func(c *goredis.Client) { _ = c.Close() }(client)
		limiter = redis.NewLoginLimiter(client, cfg.Login.MaxAttempts, cfg.Login.LockoutWindow)
		ready["redis"] = redis.Pinger{Client: client}
		log.Info().Int("max_attempts", cfg.Login.MaxAttempts).Dur("window", cfg.Login.LockoutWindow).Msg("login throttling enabled")
	}

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Audit.Workers, store.audit, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	users := service.NewUserService(store.users, dispatcher, log)
	if cfg.Bootstrap.Enabled() {
		created, err := users.BootstrapAdmin(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Email, cfg.Bootstrap.Password)
		if err != nil {
			return err
		}
		if created {
			log.Info().Str("username", cfg.Bootstrap.Username).Msg("bootstrap admin created")
		}
	}

	e, err := api.NewRouter(api.Dependencies{
		Codec:       codec,
		Credentials: store.users,
		Auth:        service.NewAuthService(store.users, codec, limiter, dispatcher, log),
		Users:       users,
		Categories:  service.NewCategoryService(store.categories, store.posts, store.comments, log),
		Posts:       service.NewPostService(store.posts, store.categories, store.comments, log),
		Comments:    service.NewCommentService(store.comments, store.posts, log),
		Ready:       ready,
		Metrics:     true,
		Log:         log,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("storage", cfg.StorageDriver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
