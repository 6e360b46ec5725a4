package db

import (
	"database/sql"
	"testing"
)

// NewTestDB returns an in-memory database with the schema applied. It is
// closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Setup(Memory)
	if err != nil {
		t.Fatalf("setting up test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}
