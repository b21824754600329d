package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetKV returns the value stored under key, or ErrNotFound. An empty
// string is a legitimate stored value, distinct from an absent key;
// deletion is the explicit DeleteKV.
func (s *SQLiteStore) GetKV(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM kv WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", storageErr(fmt.Sprintf("get kv %s", key), err)
	}
	return value, nil
}

// SetKV stores value under key, replacing any previous value.
func (s *SQLiteStore) SetKV(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return storageErr(fmt.Sprintf("set kv %s", key), err)
}

// DeleteKV removes key. Deleting an absent key is not an error.
func (s *SQLiteStore) DeleteKV(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return storageErr(fmt.Sprintf("delete kv %s", key), err)
}

// ListKV returns all keys with the given prefix and their values.
func (s *SQLiteStore) ListKV(ctx context.Context, prefix string) (map[string]string, error) {
	rows, err := s.db.QueryxContext(ctx,
		"SELECT key, value FROM kv WHERE key LIKE ? || '%' ORDER BY key", prefix)
	if err != nil {
		return nil, storageErr(fmt.Sprintf("list kv %s", prefix), err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, storageErr(fmt.Sprintf("list kv %s", prefix), err)
		}
		out[k] = v
	}
	return out, storageErr(fmt.Sprintf("list kv %s", prefix), rows.Err())
}
