package syncer

import (
	"fmt"
	"slices"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
)

// Fingerprint summarizes the id population of one table: row count, the
// full sorted id list, and the id range. Two fingerprints are equal only
// when the tables hold exactly the same rows by id.
type Fingerprint struct {
	Table string
	Count int64
	IDs   []int64
	MinID int64
	MaxID int64
}

// TableFingerprint computes the Fingerprint of a table.
func TableFingerprint(db *gorm.DB, table string) (Fingerprint, error) {
	var ids []int64
	if err := db.Table(table).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return Fingerprint{}, fmt.Errorf("fingerprint %s: %w", table, err)
	}
	fp := Fingerprint{Table: table, Count: int64(len(ids)), IDs: ids}
	if len(ids) > 0 {
		fp.MinID = ids[0]
		fp.MaxID = ids[len(ids)-1]
	}
	return fp, nil
}

// compare returns the first divergence between two fingerprints, checking
// count, then id range, then the full id set. Empty means equal.
func (f Fingerprint) compare(other Fingerprint) AnchorDivergence {
	if f.Count != other.Count {
		return DivergenceCount
	}
	if f.MinID != other.MinID || f.MaxID != other.MaxID {
		return DivergenceIDRange
	}
	if !slices.Equal(f.IDs, other.IDs) {
		return DivergenceIDSet
	}
	return ""
}

// VerifyAnchors checks that the publication and document tables hold
// identical id populations on both sides. The first divergent anchor
// aborts the run; anchors are never auto-corrected.
func VerifyAnchors(source, target *gorm.DB) error {
	for _, table := range corpus.AnchorTables() {
		srcFP, err := TableFingerprint(source, table)
		if err != nil {
			return err
		}
		dstFP, err := TableFingerprint(target, table)
		if err != nil {
			return err
		}
		if divergence := srcFP.compare(dstFP); divergence != "" {
			return &AnchorMismatchError{
				Table:      table,
				Divergence: divergence,
				Source:     srcFP,
				Target:     dstFP,
			}
		}
	}
	return nil
}
