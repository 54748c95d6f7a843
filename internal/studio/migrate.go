package studio

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

func AutoMigrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS sessions (
          user_id    TEXT PRIMARY KEY,
          project    JSONB NOT NULL,
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("invitation-maker: migrate sessions: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE TABLE IF NOT EXISTS designs (
          id         uuid PRIMARY KEY,
          owner_id   TEXT NOT NULL,
          title      TEXT NOT NULL,
          thumbnail  TEXT NOT NULL DEFAULT '',
          project    JSONB NOT NULL,
          created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
          updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
      )
    `); err != nil {
		log.Printf("invitation-maker: migrate designs: %v", err)
		return err
	}

	if _, err := pool.Exec(ctx, `
      CREATE INDEX IF NOT EXISTS idx_designs_owner_updated
      ON designs(owner_id, updated_at DESC)
    `); err != nil {
		return err
	}

	return nil
}
