// Package postgres implements the repositories on PostgreSQL through gorm.
package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/blogplatform/blog-api/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// Config captures the settings required to open the database.
type Config struct {
	DSN     string
	Timeout time.Duration
	// LogSQL turns on gorm's statement logger.
	LogSQL bool
}

// Connect opens a gorm handle and verifies connectivity with a ping. A
// default timeout is applied when none is provided.
func Connect(ctx context.Context, cfg Config) (*gorm.DB, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	level := logger.Silent
	if cfg.LogSQL {
		level = logger.Info
	}
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger:  logger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("postgres open: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := Ping(pingCtx, db); err != nil {
		return nil, err
	}
	return db, nil
}

// Ping checks the underlying connection pool.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("postgres pool: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}
	return nil
}

// Pinger adapts a gorm handle to the readiness probe.
type Pinger struct {
	DB *gorm.DB
}

func (p Pinger) Ping(ctx context.Context) error { return Ping(ctx, p.DB) }

// Migrate creates or updates the schema and seeds the role table.
func Migrate(ctx context.Context, db *gorm.DB) error {
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(
		&RoleModel{},
		&UserModel{},
		&CategoryModel{},
		&PostModel{},
		&CommentModel{},
		&AuthEventModel{},
	); err != nil {
		return fmt.Errorf("postgres migrate: %w", err)
	}
	for _, name := range domain.KnownRoles {
		role := RoleModel{Name: name}
		if err := tx.Where(RoleModel{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
	}
	return nil
}
