package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"gamewatch/pkg/models"
)

// SQLite keeps each record as a JSON document in the games table, keyed by
// slug. It backs offline runs and the read-only API.
type SQLite struct {
	DB *sql.DB
}

func NewSQLite(db *sql.DB) *SQLite {
	return &SQLite{DB: db}
}

func (s *SQLite) Get(ctx context.Context, key string) (*models.GameRecord, error) {
	var doc string
	err := s.DB.QueryRowContext(ctx, `SELECT doc FROM games WHERE id = ?`, key).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", key, err)
	}

	var rec models.GameRecord
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", key, err)
	}
	return &rec, nil
}

func (s *SQLite) Set(ctx context.Context, key string, rec models.GameRecord) error {
	doc, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", key, err)
	}
	return s.upsert(ctx, key, doc)
}

// Update merges at the top level: the stored doc's fields are overwritten
// by the fields present in rec, everything else is kept. An absent key
// behaves like Set.
func (s *SQLite) Update(ctx context.Context, key string, rec models.GameRecord) error {
	incoming, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", key, err)
	}

	var existing string
	err = s.DB.QueryRowContext(ctx, `SELECT doc FROM games WHERE id = ?`, key).Scan(&existing)
	if err == sql.ErrNoRows {
		return s.upsert(ctx, key, incoming)
	}
	if err != nil {
		return fmt.Errorf("select %s: %w", key, err)
	}

	merged, err := mergeTopLevel([]byte(existing), incoming)
	if err != nil {
		return fmt.Errorf("merge %s: %w", key, err)
	}
	return s.upsert(ctx, key, merged)
}

func (s *SQLite) upsert(ctx context.Context, key string, doc []byte) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO games (id, doc, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(id) DO UPDATE SET
		  doc = excluded.doc,
		  updated_at = excluded.updated_at
	`, key, string(doc))
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Entry pairs a record with its key, for listing.
type Entry struct {
	ID     string
	Record models.GameRecord
}

// List returns every stored record ordered by key.
func (s *SQLite) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id, doc FROM games ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id  string
			doc string
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		var rec models.GameRecord
		if err := json.Unmarshal([]byte(doc), &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", id, err)
		}
		out = append(out, Entry{ID: id, Record: rec})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func mergeTopLevel(existing, incoming []byte) ([]byte, error) {
	var base map[string]json.RawMessage
	if err := json.Unmarshal(existing, &base); err != nil {
		return nil, fmt.Errorf("decode existing: %w", err)
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(incoming, &overlay); err != nil {
		return nil, fmt.Errorf("decode incoming: %w", err)
	}
	for k, v := range overlay {
		base[k] = v
	}
	return json.Marshal(base)
}
