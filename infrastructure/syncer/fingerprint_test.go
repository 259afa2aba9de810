package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/internal/testdb"
)

func seedPublications(t *testing.T, db *gorm.DB, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		require.NoError(t, db.Create(&persistence.PublicationModel{
			ID:    id,
			Title: "pub",
		}).Error)
	}
}

func TestTableFingerprint(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	seedPublications(t, db.Session(ctx), 3, 1, 7)

	fp, err := TableFingerprint(db.Session(ctx), corpus.TablePublication)
	require.NoError(t, err)
	assert.Equal(t, int64(3), fp.Count)
	assert.Equal(t, []int64{1, 3, 7}, fp.IDs)
	assert.Equal(t, int64(1), fp.MinID)
	assert.Equal(t, int64(7), fp.MaxID)
}

func TestTableFingerprintEmptyTable(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()

	fp, err := TableFingerprint(db.Session(ctx), corpus.TablePublication)
	require.NoError(t, err)
	assert.Equal(t, int64(0), fp.Count)
	assert.Empty(t, fp.IDs)
}

func TestVerifyAnchorsCountDivergence(t *testing.T) {
	source := testdb.New(t)
	target := testdb.New(t)
	ctx := context.Background()

	seedPublications(t, source.Session(ctx), 1, 2, 3, 4)
	seedPublications(t, target.Session(ctx), 1, 2, 3)

	err := VerifyAnchors(source.Session(ctx), target.Session(ctx))
	require.Error(t, err)

	var mismatch *AnchorMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, corpus.TablePublication, mismatch.Table)
	assert.Equal(t, DivergenceCount, mismatch.Divergence)
	assert.Equal(t, int64(4), mismatch.Source.Count)
	assert.Equal(t, int64(3), mismatch.Target.Count)
}

func TestVerifyAnchorsIDSetDivergence(t *testing.T) {
	source := testdb.New(t)
	target := testdb.New(t)
	ctx := context.Background()

	seedPublications(t, source.Session(ctx), 1, 2, 4)
	seedPublications(t, target.Session(ctx), 1, 3, 4)

	err := VerifyAnchors(source.Session(ctx), target.Session(ctx))
	require.Error(t, err)

	var mismatch *AnchorMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, DivergenceIDSet, mismatch.Divergence)
}

func TestVerifyAnchorsMatchingSides(t *testing.T) {
	source := testdb.New(t)
	target := testdb.New(t)
	ctx := context.Background()

	seedPublications(t, source.Session(ctx), 1, 2)
	seedPublications(t, target.Session(ctx), 1, 2)
	for _, db := range []*gorm.DB{source.Session(ctx), target.Session(ctx)} {
		for _, id := range []int64{1, 2} {
			require.NoError(t, db.Create(&persistence.DocumentModel{
				ID:            id,
				PublicationID: id,
				Type:          "main",
			}).Error)
		}
	}

	assert.NoError(t, VerifyAnchors(source.Session(ctx), target.Session(ctx)))
}
