package database

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTxTestDB(t *testing.T) Database {
	t.Helper()
	ctx := context.Background()
	db, err := NewDatabase(ctx, "sqlite:///:memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Session(ctx).Exec(
		"CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT)").Error)
	return db
}

func countItems(t *testing.T, db Database) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Session(context.Background()).
		Raw("SELECT COUNT(*) FROM items").Scan(&n).Error)
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	ctx := context.Background()
	db := newTxTestDB(t)

	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		return tx.Exec("INSERT INTO items (id, name) VALUES (1, 'a')").Error
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countItems(t, db))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	db := newTxTestDB(t)
	boom := errors.New("boom")

	err := WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := tx.Exec("INSERT INTO items (id, name) VALUES (1, 'a')").Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(0), countItems(t, db), "rollback must leave no rows")
}

func TestTransaction_CommitTwiceIsNoop(t *testing.T) {
	ctx := context.Background()
	db := newTxTestDB(t)

	txn, err := NewTransaction(ctx, db)
	require.NoError(t, err)
	require.NoError(t, txn.Session().Exec("INSERT INTO items (id, name) VALUES (1, 'a')").Error)
	require.NoError(t, txn.Commit())
	require.NoError(t, txn.Commit())
	require.NoError(t, txn.Rollback(), "rollback after commit is a no-op")

	assert.Equal(t, int64(1), countItems(t, db))
}
