// Package sqlite provides a durable kv.Store on a local SQLite file
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// Store keeps key-value entries in a single table. Storage order is the order
// in which keys were first written.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database file at path
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, goerr.New("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open sqlite db", goerr.V("path", path))
	}
	// one writer keeps batches serialized
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to ping sqlite db", goerr.V("path", path))
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, goerr.Wrap(err, "failed to apply schema")
	}

	return &Store{db: db}, nil
}

// Close releases the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_entries WHERE entry_key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to get entry", goerr.V("key", key))
	}
	return value, true, nil
}

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	return s.Apply(ctx, kv.Put(key, value))
}

func (s *Store) Delete(ctx context.Context, key string) error {
	return s.Apply(ctx, kv.Remove(key))
}

func (s *Store) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT entry_key FROM kv_entries ORDER BY rowid`)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list keys")
	}
	defer func() {
		_ = rows.Close()
	}()

	keys := make([]string, 0)
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, goerr.Wrap(err, "failed to scan key")
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate keys")
	}
	return keys, nil
}

func (s *Store) Apply(ctx context.Context, ops ...kv.Op) error {
	for _, op := range ops {
		if op.Key == "" {
			return kv.ErrEmptyKey
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now().UTC().UnixMilli()
	for _, op := range ops {
		if op.Delete {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv_entries WHERE entry_key = ?`, op.Key); err != nil {
				return goerr.Wrap(err, "failed to delete entry", goerr.V("key", op.Key))
			}
			continue
		}

		value := op.Value
		if value == nil {
			value = []byte{}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO kv_entries (entry_key, value, updated_at) VALUES (?, ?, ?)
			 ON CONFLICT(entry_key) DO UPDATE SET
			   value = excluded.value,
			   updated_at = excluded.updated_at`,
			op.Key, value, now,
		); err != nil {
			return goerr.Wrap(err, "failed to put entry", goerr.V("key", op.Key))
		}
	}

	if err := tx.Commit(); err != nil {
		return goerr.Wrap(err, "failed to commit transaction")
	}
	return nil
}

var _ kv.Store = (*Store)(nil)
