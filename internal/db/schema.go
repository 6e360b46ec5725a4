package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. List-valued fields are JSON arrays.
const schema = `
CREATE TABLE IF NOT EXISTS jewellery (
    id               TEXT PRIMARY KEY,
    name             TEXT,
    image_url        TEXT NOT NULL,
    category         TEXT NOT NULL,
    style            TEXT NOT NULL DEFAULT '[]',
    outfit_type      TEXT NOT NULL DEFAULT '[]',
    occasion         TEXT NOT NULL DEFAULT '[]',
    primary_colors   TEXT NOT NULL DEFAULT '[]',
    secondary_colors TEXT NOT NULL DEFAULT '[]',
    material         TEXT,
    notes            TEXT,
    created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_jewellery_created_at ON jewellery(created_at);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
