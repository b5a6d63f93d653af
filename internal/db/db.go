package db

import (
	"context"
	_ "embed"
	"fmt"

	"sitecms/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

func NewPostgresConnection(cfg *config.Config) (*pgxpool.Pool, error) {
	return Connect(context.Background(), cfg.GetDSN())
}

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}

// Migrate применяет схему. Все операторы идемпотентны (IF NOT EXISTS).
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("миграция схемы: %w", err)
	}
	return nil
}
