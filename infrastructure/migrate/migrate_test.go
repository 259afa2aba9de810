package migrate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdr-explorer/corpus/internal/testdb"
)

func TestApplyOnLegacySchema(t *testing.T) {
	db := testdb.WithSchema(t,
		`CREATE TABLE publication (
			id integer PRIMARY KEY AUTOINCREMENT,
			title text NOT NULL,
			metadata text,
			citation text
		)`,
		`CREATE TABLE node (
			id integer PRIMARY KEY AUTOINCREMENT,
			document_id integer NOT NULL,
			node_type text,
			tag_name text
		)`,
		`CREATE TABLE contentdata (
			id integer PRIMARY KEY AUTOINCREMENT,
			node_id integer NOT NULL,
			text_content text
		)`,
		`CREATE TABLE embedding (
			id integer PRIMARY KEY AUTOINCREMENT,
			content_data_id integer NOT NULL,
			embedding_vector text
		)`,
	)
	ctx := context.Background()

	require.NoError(t, db.Session(ctx).Exec(
		`INSERT INTO publication (title, metadata) VALUES ('CCDR Ghana', '{"geography":"Ghana"}')`).Error)

	require.NoError(t, Apply(ctx, db, nil))

	hasOld, err := columnExists(db.Session(ctx), "publication", "metadata")
	require.NoError(t, err)
	assert.False(t, hasOld)

	hasNew, err := columnExists(db.Session(ctx), "publication", "publication_metadata")
	require.NoError(t, err)
	assert.True(t, hasNew)

	var payload string
	require.NoError(t, db.Session(ctx).Raw(
		`SELECT publication_metadata FROM publication WHERE id = 1`).Scan(&payload).Error)
	assert.JSONEq(t, `{"geography":"Ghana"}`, payload)

	hasNodeType, err := columnExists(db.Session(ctx), "node", "node_type")
	require.NoError(t, err)
	assert.False(t, hasNodeType)

	hasCitation, err := columnExists(db.Session(ctx), "publication", "citation")
	require.NoError(t, err)
	assert.False(t, hasCitation)
}

func TestApplyIsIdempotent(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, Apply(ctx, db, nil))
	require.NoError(t, Apply(ctx, db, nil))

	hasNew, err := columnExists(db.Session(ctx), "publication", "publication_metadata")
	require.NoError(t, err)
	assert.True(t, hasNew)
}

func TestColumnIntrospection(t *testing.T) {
	db := testdb.WithSchema(t,
		`CREATE TABLE sample (
			id integer PRIMARY KEY,
			required text NOT NULL,
			optional text
		)`,
	)
	ctx := context.Background()

	has, err := columnExists(db.Session(ctx), "sample", "required")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = columnExists(db.Session(ctx), "sample", "missing")
	require.NoError(t, err)
	assert.False(t, has)

	nullable, err := columnNullable(db.Session(ctx), "sample", "required")
	require.NoError(t, err)
	assert.False(t, nullable)

	nullable, err = columnNullable(db.Session(ctx), "sample", "optional")
	require.NoError(t, err)
	assert.True(t, nullable)
}
