package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const markerKey = "account_id"

const schemaSQL = `CREATE TABLE IF NOT EXISTS auth_state (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
)`

// SQLitePersister stores the marker in a single-row key table.
type SQLitePersister struct {
	db *sql.DB
}

// OpenSQLite opens or creates the state database at path.
func OpenSQLite(path string) (*SQLitePersister, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLitePersister{db: db}, nil
}

func (p *SQLitePersister) Load(ctx context.Context) (string, error) {
	var id string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM auth_state WHERE key = ?`, markerKey).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return id, err
}

func (p *SQLitePersister) Save(ctx context.Context, accountID string) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO auth_state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		markerKey, accountID)
	return err
}

func (p *SQLitePersister) Clear(ctx context.Context) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM auth_state WHERE key = ?`, markerKey)
	return err
}

// Close releases the database.
func (p *SQLitePersister) Close() error {
	return p.db.Close()
}
