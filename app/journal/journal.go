// Package journal records finished conversations in the flow_results table.
package journal

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/utilbot/core/logger"
)

const component = "journal"

// Migrations holds the schema for the journal table.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"

// Entry is one finished flow or command.
type Entry struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	ChatID    int64     `db:"chat_id"`
	Flow      string    `db:"flow"`
	Outcome   string    `db:"outcome"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

const insertEntry = `INSERT INTO flow_results (id, user_id, chat_id, flow, outcome, detail, created_at)
VALUES (:id, :user_id, :chat_id, :flow, :outcome, :detail, :created_at)`

// Store writes entries through sqlx.
type Store struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewStore returns a Store writing to db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Record inserts e, filling the id and timestamp when unset.
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now().UTC()
	}

	start := time.Now()
	_, err := s.db.NamedExecContext(ctx, insertEntry, e)
	attrs := []slog.Attr{
		slog.String("flow", e.Flow),
		slog.String("outcome", e.Outcome),
		slog.Duration("duration", logger.Took(start)),
		slog.String("status", logger.Status(err)),
	}
	if err != nil {
		logger.Warn(ctx, component, "journal.record", append(attrs, slog.String("err", err.Error()))...)
		return fmt.Errorf("insert flow result: %w", err)
	}
	logger.Debug(ctx, component, "journal.record", attrs...)
	return nil
}

// Noop discards entries; it is used when the database is disabled.
type Noop struct{}

// Record does nothing.
func (Noop) Record(context.Context, Entry) error { return nil }
