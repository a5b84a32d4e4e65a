// Package pgsync copies roster snapshots into PostgreSQL.
//
// Each sync records a row in roster_syncs and replaces the contents of
// roster_characters inside a single transaction, so readers of the table
// always see one complete snapshot.
package pgsync

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/roster/internal/config"
	"github.com/JonMunkholm/roster/internal/core"
	"github.com/JonMunkholm/roster/internal/logging"
)

const schema = `
CREATE TABLE IF NOT EXISTS roster_syncs (
	id          UUID PRIMARY KEY,
	file        TEXT NOT NULL,
	synced_at   TIMESTAMPTZ NOT NULL,
	characters  INTEGER NOT NULL,
	skipped     INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS roster_characters (
	sync_id     UUID NOT NULL REFERENCES roster_syncs(id) ON DELETE CASCADE,
	position    INTEGER NOT NULL,
	name        TEXT NOT NULL,
	profession  TEXT NOT NULL,
	level       INTEGER NOT NULL,
	hp          INTEGER NOT NULL,
	equipment   TEXT[] NOT NULL,
	PRIMARY KEY (sync_id, position)
);`

// characterColumns is the COPY column order used by Rows.
var characterColumns = []string{"sync_id", "position", "name", "profession", "level", "hp", "equipment"}

// DB is the subset of *pgxpool.Pool used by Syncer.
type DB interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Begin(context.Context) (pgx.Tx, error)
}

// Result summarizes a completed sync.
type Result struct {
	ID         uuid.UUID `json:"id"`
	File       string    `json:"file"`
	SyncedAt   time.Time `json:"syncedAt"`
	Characters int       `json:"characters"`
	Skipped    int       `json:"skipped"`
}

// Syncer writes roster snapshots to PostgreSQL.
type Syncer struct {
	db  DB
	now func() time.Time
}

// New creates a Syncer on db.
func New(db DB) *Syncer {
	return &Syncer{db: db, now: time.Now}
}

// Connect opens and pings a connection pool configured from cfg.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	if !cfg.Enabled() {
		return nil, core.ErrDatabaseNotConfigured
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logging.FromContext(ctx).Info("connected to database", "name", databaseName(cfg.URL))
	return pool, nil
}

// databaseName extracts the database name for logging without credentials.
func databaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}

// EnsureSchema creates the sync tables when they do not exist.
func (s *Syncer) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// Sync stores roster as the current snapshot of file. Entries whose level or
// HP are not numbers are left out and counted in Result.Skipped.
func (s *Syncer) Sync(ctx context.Context, file string, roster core.Roster) (Result, error) {
	id := uuid.New()
	syncID := pgtype.UUID{Bytes: id, Valid: true}
	rows, skipped := Rows(syncID, roster)

	result := Result{
		ID:         id,
		File:       file,
		SyncedAt:   s.now().UTC(),
		Characters: len(rows),
		Skipped:    skipped,
	}

	logger := logging.WithFields(ctx, "sync_id", id.String(), "file", file)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("begin sync: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	_, err = tx.Exec(ctx,
		`INSERT INTO roster_syncs (id, file, synced_at, characters, skipped) VALUES ($1, $2, $3, $4, $5)`,
		syncID, file, pgtype.Timestamptz{Time: result.SyncedAt, Valid: true}, result.Characters, result.Skipped,
	)
	if err != nil {
		return Result{}, fmt.Errorf("insert sync: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM roster_characters WHERE sync_id <> $1`, syncID); err != nil {
		return Result{}, fmt.Errorf("clear previous characters: %w", err)
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"roster_characters"}, characterColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return Result{}, fmt.Errorf("copy characters: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, fmt.Errorf("commit sync: %w", err)
	}

	logger.Info("roster synced", "characters", copied, "skipped", skipped)
	return result, nil
}

// Rows converts roster entries to COPY rows in characterColumns order.
// Position is the entry's 1-based selection number. Entries whose level or
// HP is not a number, or does not fit an INTEGER column, are skipped and
// counted.
func Rows(syncID pgtype.UUID, roster core.Roster) ([][]any, int) {
	rows := make([][]any, 0, len(roster.Entries))
	skipped := 0
	for _, e := range roster.Entries {
		c, err := e.Fields.Character()
		if err != nil || !fitsInt32(c.Level, c.HP, e.Selection) {
			skipped++
			continue
		}
		equipment := c.Equipment
		if equipment == nil {
			equipment = []string{}
		}
		rows = append(rows, []any{
			syncID,
			int32(e.Selection),
			c.Name,
			c.Profession,
			int32(c.Level),
			int32(c.HP),
			equipment,
		})
	}
	return rows, skipped
}

// fitsInt32 reports whether every n fits a Postgres INTEGER.
func fitsInt32(ns ...int) bool {
	for _, n := range ns {
		if n < math.MinInt32 || n > math.MaxInt32 {
			return false
		}
	}
	return true
}
