package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Both collections are persisted as
// opaque JSON blobs in the kv table, one row per collection, rewritten in
// full on every mutation. The blobs carry no version field, so any format
// change is a breaking change.
const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
