package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spidyleet/internal/platform/logger"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
)

const schema = `
CREATE TABLE IF NOT EXISTS attempts (
	id          UUID PRIMARY KEY,
	user_id     TEXT NOT NULL DEFAULT '',
	problem_id  TEXT NOT NULL,
	kind        TEXT NOT NULL,
	language    TEXT NOT NULL,
	verdict     TEXT NOT NULL,
	passed      INTEGER NOT NULL DEFAULT 0,
	total       INTEGER NOT NULL DEFAULT 0,
	runtime     TEXT NOT NULL DEFAULT '',
	memory      TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS attempts_user_problem_idx ON attempts (user_id, problem_id, created_at DESC);
`

// Connect opens the pool, verifies it and creates the attempts table if needed.
func Connect(ctx context.Context, connStr string) (*sql.DB, error) {
	log := logger.NewNamedLogger("database")

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	log.Info("successfully connected to PostgreSQL database")
	return db, nil
}

func Close(db *sql.DB) {
	if db != nil {
		db.Close()
		logger.NewNamedLogger("database").Info("database connection closed")
	}
}
