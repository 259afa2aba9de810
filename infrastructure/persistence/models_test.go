package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/internal/database"
	"github.com/ccdr-explorer/corpus/internal/testdb"
)

func strPtr(s string) *string { return &s }

func TestJSONColumnsMigrateAsText(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	for _, tc := range []struct{ table, column string }{
		{"publication", "publication_metadata"},
		{"node", "positional_data"},
	} {
		var colType string
		require.NoError(t, db.Session(ctx).Raw(
			"SELECT type FROM pragma_table_info(?) WHERE name = ?",
			tc.table, tc.column,
		).Scan(&colType).Error)
		assert.Equal(t, "text", colType, "%s.%s", tc.table, tc.column)
	}
}

func TestPublicationMetadataRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	date := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, db.Session(ctx).Create(&persistence.PublicationModel{
		ID:              1,
		Title:           "CCDR Ghana",
		Authors:         "World Bank Group",
		PublicationDate: &date,
		Metadata: persistence.JSONMap{
			"geography": "Ghana",
			"year":      float64(2024),
		},
	}).Error)

	var loaded persistence.PublicationModel
	require.NoError(t, db.Session(ctx).First(&loaded, 1).Error)
	assert.Equal(t, "CCDR Ghana", loaded.Title)
	assert.Equal(t, "Ghana", loaded.Metadata["geography"])
	assert.Equal(t, float64(2024), loaded.Metadata["year"])
	require.NotNil(t, loaded.PublicationDate)
	assert.True(t, date.Equal(*loaded.PublicationDate))
}

func TestNodePositionalDataRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, db.Session(ctx).Create(&persistence.NodeModel{
		ID:         1,
		DocumentID: 1,
		TagName:    "figure",
		PositionalData: persistence.PositionalJSON{
			{
				PagePDF:     12,
				PageLogical: 10,
				BBox:        corpus.BBox{X1: 10, Y1: 20, X2: 300, Y2: 400},
			},
		},
	}).Error)

	var loaded persistence.NodeModel
	require.NoError(t, db.Session(ctx).First(&loaded, 1).Error)
	require.Len(t, loaded.PositionalData, 1)
	assert.Equal(t, 12, loaded.PositionalData[0].PagePDF)
	assert.Equal(t, float64(300), loaded.PositionalData[0].BBox.X2)
	assert.Nil(t, loaded.ParentID)
}

func TestEmbeddingVectorRoundTrip(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	require.NoError(t, db.Session(ctx).Create(&persistence.EmbeddingModel{
		ID:            1,
		ContentDataID: 1,
		Vector:        database.NewVector([]float64{0.25, -1.5, 3}),
		ModelName:     "text-embedding-3-small",
	}).Error)

	var loaded persistence.EmbeddingModel
	require.NoError(t, db.Session(ctx).First(&loaded, 1).Error)
	assert.Equal(t, []float64{0.25, -1.5, 3}, loaded.Vector.Floats())
}

func TestNodeToDomain(t *testing.T) {
	parent := int64(3)
	node := persistence.NodeToDomain(persistence.NodeModel{
		ID:               7,
		DocumentID:       2,
		ParentID:         &parent,
		SequenceInParent: 3,
		TagName:          "p",
		SectionType:      strPtr("adaptation"),
	})
	assert.Equal(t, corpus.TagP, node.TagName)
	assert.Equal(t, corpus.SectionType("adaptation"), node.SectionType)
	require.NotNil(t, node.ParentID)
	assert.Equal(t, parent, *node.ParentID)

	root := persistence.NodeToDomain(persistence.NodeModel{ID: 1, DocumentID: 2, TagName: "section"})
	assert.Nil(t, root.ParentID)
	assert.Equal(t, corpus.SectionType(""), root.SectionType)
}

func TestPublicationToDomain(t *testing.T) {
	pub := persistence.PublicationToDomain(persistence.PublicationModel{
		ID:    1,
		Title: "CCDR Ghana",
		Metadata: persistence.JSONMap{
			"geographical": map[string]any{"iso3_country_codes": []any{"GHA"}},
		},
	})
	assert.Equal(t, "CCDR Ghana", pub.Title)
	assert.Contains(t, pub.Metadata, "geographical")
}

func TestStore(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	store := persistence.NewStore(db)

	require.NoError(t, db.Session(ctx).Create(&persistence.PublicationModel{
		ID:    1,
		Title: "CCDR Ghana",
	}).Error)
	for _, n := range []persistence.NodeModel{
		{ID: 1, DocumentID: 1, TagName: "section"},
		{ID: 2, DocumentID: 1, TagName: "p", SectionType: strPtr("mitigation")},
	} {
		require.NoError(t, db.Session(ctx).Create(&n).Error)
	}

	count, err := store.CountRows(ctx, corpus.TableNode)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	nodes, err := store.NodesByIDs(ctx, []int64{2})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, corpus.TagP, nodes[0].TagName)
	assert.Equal(t, corpus.SectionType("mitigation"), nodes[0].SectionType)

	none, err := store.NodesByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, none)

	pubs, err := store.Publications(ctx)
	require.NoError(t, err)
	require.Len(t, pubs, 1)
	assert.Equal(t, "CCDR Ghana", pubs[0].Title)
}
