package database

import (
	"database/sql"
	"fmt"
)

// One table: the store is a keyed document store, each game is a JSON doc
// under its slug.
const schema = `
CREATE TABLE IF NOT EXISTS games (
  id         TEXT PRIMARY KEY,
  doc        TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`

func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
