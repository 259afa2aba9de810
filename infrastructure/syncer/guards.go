package syncer

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
)

// probeChunkSize bounds the size of IN lists when probing the target for
// referenced ids.
const probeChunkSize = 1000

// VerifyTargetEmpty checks that every dependent table at the target holds
// zero rows. Strict mode refuses to write into a partially populated
// target; a failed run should be resumed or the target wiped first.
func VerifyTargetEmpty(target *gorm.DB) error {
	var occupied []TableCount
	for _, table := range corpus.DependentTables() {
		var count int64
		if err := target.Table(table).Count(&count).Error; err != nil {
			return fmt.Errorf("count %s: %w", table, err)
		}
		if count > 0 {
			occupied = append(occupied, TableCount{Table: table, Count: count})
		}
	}
	if len(occupied) > 0 {
		return &NonEmptyTargetError{Tables: occupied}
	}
	return nil
}

// VerifyDocumentRefs checks that every document id referenced by a source
// node exists in the target document table. Nodes are never written
// against documents the target does not know about.
func VerifyDocumentRefs(source, target *gorm.DB) error {
	var referenced []int64
	err := source.Table(corpus.TableNode).
		Distinct("document_id").
		Order("document_id ASC").
		Pluck("document_id", &referenced).Error
	if err != nil {
		return fmt.Errorf("collect referenced document ids: %w", err)
	}
	if len(referenced) == 0 {
		return nil
	}

	present := make(map[int64]struct{}, len(referenced))
	for start := 0; start < len(referenced); start += probeChunkSize {
		end := min(start+probeChunkSize, len(referenced))
		var found []int64
		err := target.Table(corpus.TableDocument).
			Where("id IN ?", referenced[start:end]).
			Pluck("id", &found).Error
		if err != nil {
			return fmt.Errorf("probe target documents: %w", err)
		}
		for _, id := range found {
			present[id] = struct{}{}
		}
	}

	var missing []int64
	for _, id := range referenced {
		if _, ok := present[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &DanglingReferenceError{Missing: missing}
	}
	return nil
}
