// Package testdb provides shared test database helpers for fast,
// realistic testing against in-memory SQLite databases.
package testdb

import (
	"context"
	"testing"

	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// New creates an in-memory SQLite database with the corpus schema applied.
// The database is automatically closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	if err := persistence.AutoMigrate(ctx, db); err != nil {
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	return db
}

// NewPlain creates an in-memory SQLite database without running
// migrations. Useful for tests that manage their own schema.
func NewPlain(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.NewPlain: open database: %v", err)
	}
	// A second pooled connection to :memory: would see a different,
	// empty database.
	if err := db.ConfigurePool(1, 1, 0); err != nil {
		t.Fatalf("testdb.NewPlain: configure pool: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// WithSchema creates an in-memory SQLite database and executes the given
// SQL statements to set up a custom schema.
func WithSchema(t *testing.T, statements ...string) database.Database {
	t.Helper()
	ctx := context.Background()
	db := NewPlain(t)
	for _, stmt := range statements {
		if err := db.Session(ctx).Exec(stmt).Error; err != nil {
			t.Fatalf("testdb.WithSchema: %v\nSQL: %s", err, stmt)
		}
	}
	return db
}
