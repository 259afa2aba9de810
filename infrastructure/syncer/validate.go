package syncer

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
)

// DependentCounts holds the row counts of the three dependent tables on
// one side of a sync.
type DependentCounts struct {
	Nodes       int64
	ContentData int64
	Embeddings  int64
}

// CountDependents reads the dependent table row counts.
func CountDependents(db *gorm.DB) (DependentCounts, error) {
	var counts DependentCounts
	for _, pair := range []struct {
		table string
		dest  *int64
	}{
		{corpus.TableNode, &counts.Nodes},
		{corpus.TableContentData, &counts.ContentData},
		{corpus.TableEmbedding, &counts.Embeddings},
	} {
		if err := db.Table(pair.table).Count(pair.dest).Error; err != nil {
			return DependentCounts{}, fmt.Errorf("count %s: %w", pair.table, err)
		}
	}
	return counts, nil
}

// VerifyCounts checks the transferred tables against the source counts
// taken at the start of the run: contentdata and embedding must match
// exactly, node may only exceed the source (a resumed run can have
// carried nodes the source has since lost, never the reverse).
func VerifyCounts(source DependentCounts, tx *gorm.DB) error {
	target, err := CountDependents(tx)
	if err != nil {
		return err
	}
	if target.Nodes < source.Nodes {
		return &CountMismatchError{
			Table:  corpus.TableNode,
			Source: source.Nodes,
			Target: target.Nodes,
		}
	}
	if target.ContentData != source.ContentData {
		return &CountMismatchError{
			Table:  corpus.TableContentData,
			Source: source.ContentData,
			Target: target.ContentData,
		}
	}
	if target.Embeddings != source.Embeddings {
		return &CountMismatchError{
			Table:  corpus.TableEmbedding,
			Source: source.Embeddings,
			Target: target.Embeddings,
		}
	}
	return nil
}
