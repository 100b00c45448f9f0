// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL(), which concatenates the
// embedded migrations, so tests run against the same schema as production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/genatt/internal/adapters/sqlite"
	"github.com/example/genatt/internal/db"
	"github.com/example/genatt/internal/ports/secondary"
)

// Entry type IDs from the embedded catalog.
const (
	typeText     = 1
	typeTextArea = 2
	typeCheckBox = 3
	typeComment  = 4
	typeGroup    = 5
)

// setupTestDB creates an in-memory database with the authoritative schema
// and the entry type catalog.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// :memory: databases are per connection
	testDB.SetMaxOpenConns(1)

	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	if _, err := db.SeedEntryTypes(context.Background(), testDB); err != nil {
		t.Fatalf("failed to seed entry types: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedEntry creates an entry through the repository and returns it.
func seedEntry(t *testing.T, database *sql.DB, record *secondary.EntryRecord) *secondary.EntryRecord {
	t.Helper()
	if record.TypeID == 0 {
		record.TypeID = typeTextArea
	}
	if record.ResourceType == "" {
		record.ResourceType = "FORM"
	}
	if record.ResourceID == 0 {
		record.ResourceID = 1
	}
	if _, err := sqlite.NewEntryRepository(database).Create(context.Background(), record); err != nil {
		t.Fatalf("failed to seed entry: %v", err)
	}
	return record
}

// seedField inserts a field for an entry and returns its ID.
func seedField(t *testing.T, database *sql.DB, entryID int, title string) int {
	t.Helper()
	id, err := sqlite.NewFieldRepository(database).Create(context.Background(), &secondary.FieldRecord{
		EntryID:      entryID,
		Title:        title,
		Width:        -1,
		Height:       -1,
		MaxSizeEnter: -1,
	})
	if err != nil {
		t.Fatalf("failed to seed field: %v", err)
	}
	return id
}

// rawPositions reads pos and pos_conditional as stored.
func rawPositions(t *testing.T, database *sql.DB, entryID int) (pos, posConditional int) {
	t.Helper()
	err := database.QueryRow("SELECT pos, pos_conditional FROM genatt_entry WHERE id_entry = ?", entryID).
		Scan(&pos, &posConditional)
	if err != nil {
		t.Fatalf("failed to read positions: %v", err)
	}
	return pos, posConditional
}

func boolPtr(b bool) *bool {
	return &b
}
