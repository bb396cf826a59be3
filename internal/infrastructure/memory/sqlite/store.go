// Package sqlite keeps the conversation log in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"agent-runner/internal/application/port/output"
	"agent-runner/internal/domain/entity"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS memory_entries (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	agent_id  TEXT    NOT NULL,
	timestamp INTEGER NOT NULL,
	content   TEXT    NOT NULL,
	role      TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_memory_entries_agent ON memory_entries(agent_id, id);
`

var _ output.MemoryPort = (*Store)(nil)

type Config struct {
	// DSN is a file path or ":memory:".
	DSN string
	// MaxEntriesPerSession bounds each session's history; older entries are pruned
	// on insert. Zero keeps everything.
	MaxEntriesPerSession int
}

type Store struct {
	db         *sql.DB
	maxEntries int
	now        func() time.Time
}

func Open(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("%w: sqlite dsn is required", entity.ErrConfiguration)
	}
	if cfg.MaxEntriesPerSession < 0 {
		return nil, fmt.Errorf("%w: max entries per session must not be negative", entity.ErrConfiguration)
	}

	if !isInMemory(cfg.DSN) {
		if dir := filepath.Dir(cfg.DSN); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("%w: create database directory: %v", entity.ErrMemory, err)
			}
		}
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", entity.ErrMemory, err)
	}

	// SQLite allows a single writer; one connection also keeps ":memory:" shared.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: set pragma: %v", entity.ErrMemory, err)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: initialize schema: %v", entity.ErrMemory, err)
	}

	return &Store{
		db:         db,
		maxEntries: cfg.MaxEntriesPerSession,
		now:        time.Now,
	}, nil
}

func isInMemory(dsn string) bool {
	return dsn == ":memory:" || strings.HasPrefix(dsn, "file::memory:")
}

func (s *Store) Append(ctx context.Context, sessionID, content string, role entity.MessageRole) (entity.MemoryEntry, error) {
	if sessionID == "" {
		return entity.MemoryEntry{}, fmt.Errorf("%w: session id is required", entity.ErrMemory)
	}
	if !role.Valid() {
		return entity.MemoryEntry{}, fmt.Errorf("%w: invalid role %q", entity.ErrMemory, role)
	}

	entry := entity.MemoryEntry{
		SessionID: sessionID,
		Timestamp: s.now().UTC(),
		Content:   content,
		Role:      role,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.MemoryEntry{}, fmt.Errorf("%w: begin: %v", entity.ErrMemory, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO memory_entries (agent_id, timestamp, content, role) VALUES (?, ?, ?, ?)",
		entry.SessionID, entry.Timestamp.UnixNano(), entry.Content, string(entry.Role))
	if err != nil {
		return entity.MemoryEntry{}, fmt.Errorf("%w: insert: %v", entity.ErrMemory, err)
	}
	entry.ID, err = res.LastInsertId()
	if err != nil {
		return entity.MemoryEntry{}, fmt.Errorf("%w: last insert id: %v", entity.ErrMemory, err)
	}

	if s.maxEntries > 0 {
		_, err = tx.ExecContext(ctx, `
			DELETE FROM memory_entries
			WHERE agent_id = ? AND id NOT IN (
				SELECT id FROM memory_entries WHERE agent_id = ? ORDER BY id DESC LIMIT ?
			)`, sessionID, sessionID, s.maxEntries)
		if err != nil {
			return entity.MemoryEntry{}, fmt.Errorf("%w: prune: %v", entity.ErrMemory, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return entity.MemoryEntry{}, fmt.Errorf("%w: commit: %v", entity.ErrMemory, err)
	}
	return entry, nil
}

func (s *Store) Recent(ctx context.Context, sessionID string, limit int) ([]entity.MemoryEntry, error) {
	if limit <= 0 {
		return []entity.MemoryEntry{}, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, agent_id, timestamp, content, role
		FROM memory_entries
		WHERE agent_id = ?
		ORDER BY id DESC
		LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %v", entity.ErrMemory, err)
	}
	defer rows.Close()

	entries := make([]entity.MemoryEntry, 0, limit)
	for rows.Next() {
		var (
			e    entity.MemoryEntry
			ts   int64
			role string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &ts, &e.Content, &role); err != nil {
			return nil, fmt.Errorf("%w: scan: %v", entity.ErrMemory, err)
		}
		e.Timestamp = time.Unix(0, ts).UTC()
		e.Role = entity.MessageRole(role)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %v", entity.ErrMemory, err)
	}
	return entries, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
