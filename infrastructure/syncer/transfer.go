package syncer

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
)

// nodeTreeSQL walks the node hierarchy breadth-first. Ordering by depth
// guarantees every parent row is written before any of its children, so
// the target's parent_id foreign key is satisfied at every point of the
// stream. Sequence and id break ties deterministically.
const nodeTreeSQL = `
WITH RECURSIVE node_tree AS (
    SELECT n.id, n.parent_id, 1 AS depth
    FROM node n
    WHERE n.parent_id IS NULL
    UNION ALL
    SELECT n.id, n.parent_id, nt.depth + 1
    FROM node n
    JOIN node_tree nt ON n.parent_id = nt.id
)
SELECT n.id, n.document_id, n.tag_name, n.section_type, n.parent_id,
       n.sequence_in_parent, n.positional_data
FROM node n
JOIN node_tree nt ON n.id = nt.id
ORDER BY nt.depth ASC, n.sequence_in_parent ASC, n.id ASC`

const contentDataSQL = `
SELECT id, node_id, text_content, storage_url, description, caption,
       embedding_source
FROM contentdata
ORDER BY id ASC`

const embeddingSQL = `
SELECT id, content_data_id, embedding_vector, model_name, created_at
FROM embedding
ORDER BY id ASC`

// streamInBatches executes query against the source, scans each row into
// T, and hands batches of at most batchSize rows to flush. The source
// result set is never materialized in full.
func streamInBatches[T any](src *gorm.DB, query string, batchSize int, flush func([]T) error) (int64, error) {
	rows, err := src.Raw(query).Rows()
	if err != nil {
		return 0, fmt.Errorf("stream query: %w", err)
	}
	defer rows.Close()

	batch := make([]T, 0, batchSize)
	var total int64
	for rows.Next() {
		var row T
		if err := src.ScanRows(rows, &row); err != nil {
			return total, fmt.Errorf("scan row: %w", err)
		}
		batch = append(batch, row)
		total++
		if len(batch) == batchSize {
			if err := flush(batch); err != nil {
				return total, err
			}
			batch = batch[:0]
		}
	}
	if err := rows.Err(); err != nil {
		return total, fmt.Errorf("stream rows: %w", err)
	}
	if len(batch) > 0 {
		if err := flush(batch); err != nil {
			return total, err
		}
	}
	return total, nil
}

// batchWriter returns a flush function writing batches into tx. With
// upsert set, rows conflicting on id overwrite every non-key column;
// otherwise a conflict fails the batch and with it the transaction.
func batchWriter[T any](tx *gorm.DB, upsert bool) func([]T) error {
	return func(batch []T) error {
		session := tx.Omit(clause.Associations)
		if upsert {
			session = session.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			})
		}
		if err := session.Create(&batch).Error; err != nil {
			return fmt.Errorf("write batch: %w", err)
		}
		return nil
	}
}

// transferNodes streams the source node tree into the target in
// parent-before-child order. Nodes always upsert so a resumed run can
// cross already transferred subtrees.
func transferNodes(src, tx *gorm.DB, batchSize int) (int64, error) {
	return streamInBatches(src, nodeTreeSQL, batchSize,
		batchWriter[persistence.NodeModel](tx, true))
}

func transferContentData(src, tx *gorm.DB, batchSize int, upsert bool) (int64, error) {
	return streamInBatches(src, contentDataSQL, batchSize,
		batchWriter[persistence.ContentDataModel](tx, upsert))
}

// transferEmbeddings streams embedding rows. Callers pass a smaller batch
// size here: each row carries a full vector payload.
func transferEmbeddings(src, tx *gorm.DB, batchSize int, upsert bool) (int64, error) {
	return streamInBatches(src, embeddingSQL, batchSize,
		batchWriter[persistence.EmbeddingModel](tx, upsert))
}
