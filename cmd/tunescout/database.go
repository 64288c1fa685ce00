package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// openDatabase opens a pgx connection pool and waits for the instance to
// answer pings, since the database container may still be starting.
func openDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	const (
		pingTimeout = 5 * time.Second
		maxAttempts = 10
	)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		lastErr = db.PingContext(pingCtx)
		cancel()

		if lastErr == nil {
			return db, nil
		}
		if ctx.Err() != nil {
			break
		}

		log.Warn().
			Int("attempt", attempt).
			Err(lastErr).
			Msg("database not ready, retrying")
		time.Sleep(time.Duration(attempt) * 500 * time.Millisecond)
	}

	_ = db.Close()
	return nil, fmt.Errorf("ping database: %w", lastErr)
}
