package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded pipeline execution.
type Run struct {
	ID        string
	Input     string
	Mode      string
	Clips     int
	RunDir    string
	CreatedAt time.Time
}

// History keeps a log of pipeline runs in SQLite.
type History struct {
	db  *sql.DB
	now func() time.Time
}

func Open(dbPath string) (*History, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		input TEXT NOT NULL,
		mode TEXT NOT NULL,
		clips INTEGER NOT NULL,
		run_dir TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);
	`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &History{db: db, now: time.Now}, nil
}

// Record stores r, filling in ID and CreatedAt when unset.
func (h *History) Record(ctx context.Context, r Run) (Run, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = h.now()
	}
	_, err := h.db.ExecContext(ctx,
		`INSERT INTO runs (id, input, mode, clips, run_dir, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Input, r.Mode, r.Clips, r.RunDir, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	return r, nil
}

// List returns up to limit runs, newest first.
func (h *History) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := h.db.QueryContext(ctx,
		`SELECT id, input, mode, clips, run_dir, created_at FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		var (
			r  Run
			ts int64
		)
		if err := rows.Scan(&r.ID, &r.Input, &r.Mode, &r.Clips, &r.RunDir, &ts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.CreatedAt = time.Unix(0, ts).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

func (h *History) Close() error {
	return h.db.Close()
}
