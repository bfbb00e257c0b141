package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/mislabel/pkg/mislabel/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and initializes
// the schema.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS keywords (
	category TEXT NOT NULL,
	kind TEXT NOT NULL CHECK (kind IN ('relevant', 'clash')),
	rank INTEGER NOT NULL,
	token TEXT NOT NULL,
	PRIMARY KEY (category, kind, rank)
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	total_items INTEGER NOT NULL,
	flagged_items INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS run_items (
	run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	category TEXT NOT NULL,
	item_text TEXT NOT NULL,
	clash_json TEXT NOT NULL,
	PRIMARY KEY (run_id, idx)
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertKeywords replaces a category's stored keyword lists.
func (s *sqliteStore) UpsertKeywords(ctx context.Context, category string, ks store.KeywordSet) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM keywords WHERE category = ?", category); err != nil {
		return err
	}

	insert := func(kind string, tokens []string) error {
		for rank, token := range tokens {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO keywords (category, kind, rank, token) VALUES (?, ?, ?, ?)",
				category, kind, rank, token); err != nil {
				return err
			}
		}
		return nil
	}
	if err := insert("relevant", ks.Relevant); err != nil {
		return err
	}
	if err := insert("clash", ks.Clash); err != nil {
		return err
	}

	return tx.Commit()
}

// GetKeywords returns a category's keyword lists in stored rank order.
func (s *sqliteStore) GetKeywords(ctx context.Context, category string) (store.KeywordSet, bool, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT kind, token FROM keywords WHERE category = ? ORDER BY kind, rank", category)
	if err != nil {
		return store.KeywordSet{}, false, err
	}
	defer rows.Close()

	var ks store.KeywordSet
	found := false
	for rows.Next() {
		var kind, token string
		if err := rows.Scan(&kind, &token); err != nil {
			return store.KeywordSet{}, false, err
		}
		found = true
		if kind == "relevant" {
			ks.Relevant = append(ks.Relevant, token)
		} else {
			ks.Clash = append(ks.Clash, token)
		}
	}
	return ks, found, rows.Err()
}

// AllKeywords returns keyword lists for every stored category.
func (s *sqliteStore) AllKeywords(ctx context.Context) (map[string]store.KeywordSet, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, kind, token FROM keywords ORDER BY category, kind, rank")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]store.KeywordSet)
	for rows.Next() {
		var category, kind, token string
		if err := rows.Scan(&category, &kind, &token); err != nil {
			return nil, err
		}
		ks := out[category]
		if kind == "relevant" {
			ks.Relevant = append(ks.Relevant, token)
		} else {
			ks.Clash = append(ks.Clash, token)
		}
		out[category] = ks
	}
	return out, rows.Err()
}

// DeleteKeywords removes a category's keyword lists.
func (s *sqliteStore) DeleteKeywords(ctx context.Context, category string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM keywords WHERE category = ?", category)
	return err
}

// SaveRun stores a judgment run and its flagged items.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT OR REPLACE INTO runs (id, created_at, total_items, flagged_items) VALUES (?, ?, ?, ?)",
		r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.TotalItems, r.FlaggedItems); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM run_items WHERE run_id = ?", r.ID); err != nil {
		return err
	}

	for _, item := range r.Items {
		clashJSON, err := json.Marshal(item.Clash)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO run_items (run_id, idx, category, item_text, clash_json) VALUES (?, ?, ?, ?, ?)",
			r.ID, item.Index, item.Category, item.Text, string(clashJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRun returns a run with its flagged items.
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, bool, error) {
	var r store.Run
	var createdAt string
	err := s.db.QueryRowContext(ctx,
		"SELECT id, created_at, total_items, flagged_items FROM runs WHERE id = ?", id).
		Scan(&r.ID, &createdAt, &r.TotalItems, &r.FlaggedItems)
	if err == sql.ErrNoRows {
		return store.Run{}, false, nil
	}
	if err != nil {
		return store.Run{}, false, err
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return store.Run{}, false, err
	}

	if r.Items, err = s.runItems(ctx, id); err != nil {
		return store.Run{}, false, err
	}
	return r, true, nil
}

// RecentRuns returns up to limit runs, newest first, without items.
func (s *sqliteStore) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, created_at, total_items, flagged_items FROM runs ORDER BY created_at DESC, id DESC LIMIT ?",
		limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []store.Run
	for rows.Next() {
		var r store.Run
		var createdAt string
		if err := rows.Scan(&r.ID, &createdAt, &r.TotalItems, &r.FlaggedItems); err != nil {
			return nil, err
		}
		if r.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func (s *sqliteStore) runItems(ctx context.Context, runID string) ([]store.RunItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT idx, category, item_text, clash_json FROM run_items WHERE run_id = ? ORDER BY idx", runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []store.RunItem
	for rows.Next() {
		var item store.RunItem
		var clashJSON string
		if err := rows.Scan(&item.Index, &item.Category, &item.Text, &clashJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(clashJSON), &item.Clash); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
