// Package sqlite persists the seen-set in a single-file SQLite database.
// The batch insert runs in one transaction, so a crash mid-write leaves
// either the pre-batch or the post-batch state.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	_ "modernc.org/sqlite"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

const (
	storagePathKey  = "storage.path"
	defaultDirName  = ".dramaradar"
	defaultFileName = "seen.db"
	storageDirMode  = 0o700
)

const schema = `
CREATE TABLE IF NOT EXISTS seen_titles (
  identity      TEXT PRIMARY KEY,
  title         TEXT NOT NULL,
  platform      TEXT NOT NULL DEFAULT '',
  first_seen_at TEXT NOT NULL
);
`

type Repository struct {
	db *sql.DB
}

var _ ports.SeenRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(storagePathKey)
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, defaultDirName, defaultFileName)
	}

	if err := os.MkdirAll(filepath.Dir(path), storageDirMode); err != nil {
		return nil, storeErr("create storage directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storeErr("open seen-set database", err)
	}

	// SQLite prefers a single writer; the run is single-threaded anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	_, _ = db.Exec("PRAGMA busy_timeout = 5000")

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, storeErr("apply seen-set schema", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) Contains(ctx context.Context, id domain.Identity) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM seen_titles WHERE identity = ? LIMIT 1`, string(id)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storeErr("membership query", err)
	}
	return true, nil
}

func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM seen_titles`).Scan(&n); err != nil {
		return 0, storeErr("count query", err)
	}
	return n, nil
}

func (r *Repository) IsEmpty(ctx context.Context) (bool, error) {
	n, err := r.Count(ctx)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// AddAll persists the batch in one transaction. Already-present identities
// are skipped, never an error.
func (r *Repository) AddAll(ctx context.Context, records []domain.SeenRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("begin batch insert", err)
	}

	for _, rec := range records {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO seen_titles(identity, title, platform, first_seen_at)
			 VALUES(?, ?, ?, ?)
			 ON CONFLICT(identity) DO NOTHING`,
			string(rec.Identity), rec.Title, rec.Platform, rec.FirstSeenAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			_ = tx.Rollback()
			return storeErr("insert seen record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("commit batch insert", err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context) ([]domain.SeenRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT identity, title, platform, first_seen_at FROM seen_titles ORDER BY first_seen_at DESC, identity`)
	if err != nil {
		return nil, storeErr("list query", err)
	}
	defer func() { _ = rows.Close() }()

	var records []domain.SeenRecord
	for rows.Next() {
		var rec domain.SeenRecord
		var id, firstSeen string
		if err := rows.Scan(&id, &rec.Title, &rec.Platform, &firstSeen); err != nil {
			return nil, storeErr("scan seen record", err)
		}
		rec.Identity = domain.Identity(id)
		at, err := time.Parse(time.RFC3339, firstSeen)
		if err != nil {
			return nil, storeErr("parse first_seen_at", err)
		}
		rec.FirstSeenAt = at
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterate seen records", err)
	}
	return records, nil
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStore, err))
}
