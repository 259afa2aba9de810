package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/internal/testdb"
)

func TestDescribeTableSQLite(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	cols, err := DescribeTable(db.Session(ctx), corpus.TableNode)
	require.NoError(t, err)
	require.NotEmpty(t, cols)

	byName := map[string]ColumnDescriptor{}
	for _, c := range cols {
		byName[c.Name] = c
	}

	id, ok := byName["id"]
	require.True(t, ok)
	assert.True(t, id.Identity)
	assert.False(t, id.Nullable)

	docID, ok := byName["document_id"]
	require.True(t, ok)
	assert.False(t, docID.Nullable)
	assert.False(t, docID.Identity)

	parentID, ok := byName["parent_id"]
	require.True(t, ok)
	assert.True(t, parentID.Nullable)
}

func TestDescribeTableUnknownTableIsEmpty(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	cols, err := DescribeTable(db.Session(ctx), "no_such_table")
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestVerifySchemasIdenticalDatabases(t *testing.T) {
	source := testdb.New(t)
	target := testdb.New(t)
	ctx := context.Background()

	err := VerifySchemas(source.Session(ctx), target.Session(ctx), corpus.AllTables())
	assert.NoError(t, err)
}

func TestVerifySchemasReportsEveryDivergentTable(t *testing.T) {
	source := testdb.New(t)
	target := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, target.Session(ctx).Exec(
		"ALTER TABLE node ADD COLUMN extra text").Error)
	require.NoError(t, target.Session(ctx).Exec(
		"ALTER TABLE embedding ADD COLUMN extra text").Error)

	err := VerifySchemas(source.Session(ctx), target.Session(ctx), corpus.AllTables())
	require.Error(t, err)

	var mismatch *SchemaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, []string{corpus.TableNode, corpus.TableEmbedding}, mismatch.Tables)
}

func TestNormalizeDefault(t *testing.T) {
	assert.Equal(t, "nextval(...)", normalizeDefault("nextval('node_id_seq'::regclass)"))
	assert.Equal(t, "nextval(...)", normalizeDefault("NEXTVAL('document_id_seq1')"))
	assert.Equal(t, "now()", normalizeDefault("now()"))
	assert.Equal(t, "", normalizeDefault(""))
}
