package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Table definitions for the durable record store. Users and meetings are the
// authoritative records; logs is the append-only presence audit trail and
// chat_messages retains chat after a meeting's live log is torn down.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		email VARCHAR(255) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		age SMALLINT CHECK (age > 0),
		gender VARCHAR(50)
	)`,
	`CREATE TABLE IF NOT EXISTS meetings (
		meeting_id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		t1 TIMESTAMP WITH TIME ZONE NOT NULL,
		t2 TIMESTAMP WITH TIME ZONE NOT NULL,
		lat FLOAT NOT NULL,
		long FLOAT NOT NULL,
		participants TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) NOT NULL,
		meeting_id BIGINT NOT NULL,
		timestamp TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
		action SMALLINT NOT NULL CHECK (action IN (1, 2, 3))
	)`,
	`CREATE TABLE IF NOT EXISTS chat_messages (
		id BIGSERIAL PRIMARY KEY,
		meeting_id BIGINT NOT NULL,
		email VARCHAR(255) NOT NULL,
		message TEXT NOT NULL,
		timestamp TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates the tables if they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("postgres: ensure schema: %w", err)
		}
	}
	return nil
}
