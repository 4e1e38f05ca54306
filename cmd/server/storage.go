package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/blogplatform/blog-api/internal/api/handler"
	"github.com/blogplatform/blog-api/internal/core/ports"
	"github.com/blogplatform/blog-api/internal/infrastructure/db/memory"
	mongodb "github.com/blogplatform/blog-api/internal/infrastructure/db/mongo"
	"github.com/blogplatform/blog-api/internal/infrastructure/db/postgres"
	"github.com/blogplatform/blog-api/internal/pkg/config"
)

// storage bundles the repositories of one backend.
type storage struct {
	users      ports.UserRepository
	categories ports.CategoryRepository
	posts      ports.PostRepository
	comments   ports.CommentRepository
	audit      ports.AuditRepository
	pinger     handler.Pinger
	close      func(context.Context) error
}

// openStorage connects the backend selected by STORAGE_DRIVER and prepares
// its schema.
func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, LogSQL: cfg.IsDevelopment()})
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db); err != nil {
			return nil, fmt.Errorf("postgres migrate: %w", err)
		}
		log.Info().Msg("connected to postgres")
		return &storage{
			users:      postgres.NewUserRepository(db),
			categories: postgres.NewCategoryRepository(db),
			posts:      postgres.NewPostRepository(db),
			comments:   postgres.NewCommentRepository(db),
			audit:      postgres.NewAuditRepository(db),
			pinger:     postgres.Pinger{DB: db},
			close: func(context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		}, nil

	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")
		return &storage{
			users:      mongodb.NewUserRepository(db),
			categories: mongodb.NewCategoryRepository(db),
			posts:      mongodb.NewPostRepository(db),
			comments:   mongodb.NewCommentRepository(db),
			audit:      mongodb.NewAuditRepository(db),
			pinger:     mongodb.Pinger{Client: client},
			close:      client.Disconnect,
		}, nil

	default:
		store := memory.NewStore()
		log.Warn().Msg("using in-memory storage, data is lost on restart")
		return &storage{
			users:      memory.NewUserRepository(store),
			categories: memory.NewCategoryRepository(store),
			posts:      memory.NewPostRepository(store),
			comments:   memory.NewCommentRepository(store),
			audit:      memory.NewAuditRepository(store),
			pinger:     store,
			close:      func(context.Context) error { return nil },
		}, nil
	}
}
