// Package migrate applies one-shot schema conversions that brought the
// corpus schema to its current shape. Every step is guarded so a rerun
// is a no-op.
package migrate

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// Migration is one named, idempotent schema conversion.
type Migration struct {
	Name string
	Run  func(ctx context.Context, tx *gorm.DB) error
}

// Migrations returns all conversions in application order.
func Migrations() []Migration {
	return []Migration{
		{Name: "rename publication metadata column", Run: renamePublicationMetadata},
		{Name: "drop node_type column and enum", Run: dropNodeType},
		{Name: "enforce tag_name not null", Run: enforceTagNameNotNull},
		{Name: "drop publication citation column", Run: dropPublicationCitation},
		{Name: "convert embedding array to vector", Run: convertEmbeddingVector},
	}
}

// Apply runs every migration, each in its own transaction.
func Apply(ctx context.Context, db database.Database, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, m := range Migrations() {
		logger.InfoContext(ctx, "applying migration", "name", m.Name)
		err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
			return m.Run(ctx, tx)
		})
		if err != nil {
			return fmt.Errorf("migration %q: %w", m.Name, err)
		}
	}
	return nil
}

// renamePublicationMetadata moves the publication metadata payload from
// the reserved-word-adjacent "metadata" column to publication_metadata.
func renamePublicationMetadata(_ context.Context, tx *gorm.DB) error {
	hasOld, err := columnExists(tx, corpus.TablePublication, "metadata")
	if err != nil {
		return err
	}
	hasNew, err := columnExists(tx, corpus.TablePublication, "publication_metadata")
	if err != nil {
		return err
	}
	switch {
	case hasOld && !hasNew:
		return tx.Exec(
			`ALTER TABLE publication RENAME COLUMN metadata TO publication_metadata`).Error
	case !hasOld && !hasNew:
		columnType := "jsonb"
		if tx.Name() == "sqlite" {
			columnType = "text"
		}
		return tx.Exec(
			`ALTER TABLE publication ADD COLUMN publication_metadata ` + columnType).Error
	default:
		return nil
	}
}

// dropNodeType removes the legacy node_type classification. Its role was
// folded into tag_name.
func dropNodeType(_ context.Context, tx *gorm.DB) error {
	has, err := columnExists(tx, corpus.TableNode, "node_type")
	if err != nil {
		return err
	}
	if has {
		if err := tx.Exec(`ALTER TABLE node DROP COLUMN node_type`).Error; err != nil {
			return err
		}
	}
	if tx.Name() == "postgres" {
		return tx.Exec(`DROP TYPE IF EXISTS nodetype`).Error
	}
	return nil
}

func enforceTagNameNotNull(_ context.Context, tx *gorm.DB) error {
	if tx.Name() != "postgres" {
		return nil
	}
	nullable, err := columnNullable(tx, corpus.TableNode, "tag_name")
	if err != nil {
		return err
	}
	if !nullable {
		return nil
	}
	if err := tx.Exec(`UPDATE node SET tag_name = 'text' WHERE tag_name IS NULL`).Error; err != nil {
		return err
	}
	return tx.Exec(`ALTER TABLE node ALTER COLUMN tag_name SET NOT NULL`).Error
}

func dropPublicationCitation(_ context.Context, tx *gorm.DB) error {
	has, err := columnExists(tx, corpus.TablePublication, "citation")
	if err != nil {
		return err
	}
	if !has {
		return nil
	}
	return tx.Exec(`ALTER TABLE publication DROP COLUMN citation`).Error
}

// convertEmbeddingVector rewrites the embedding_vector column from a
// float8 array to pgvector's vector(1536). Every stored array must
// already have exactly 1536 dimensions; the row count is compared before
// and after the rewrite.
func convertEmbeddingVector(_ context.Context, tx *gorm.DB) error {
	if tx.Name() != "postgres" {
		return nil
	}
	udt, err := columnUDTName(tx, corpus.TableEmbedding, "embedding_vector")
	if err != nil {
		return err
	}
	if udt != "_float8" {
		return nil
	}

	var badDims int64
	err = tx.Raw(
		`SELECT COUNT(*) FROM embedding WHERE embedding_vector IS NOT NULL AND array_length(embedding_vector, 1) <> ?`,
		corpus.EmbeddingDimensions,
	).Scan(&badDims).Error
	if err != nil {
		return err
	}
	if badDims > 0 {
		return fmt.Errorf("%d embedding rows do not have %d dimensions", badDims, corpus.EmbeddingDimensions)
	}

	var before int64
	if err := tx.Table(corpus.TableEmbedding).Count(&before).Error; err != nil {
		return err
	}

	if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS vector`).Error; err != nil {
		return err
	}
	err = tx.Exec(fmt.Sprintf(
		`ALTER TABLE embedding ALTER COLUMN embedding_vector TYPE vector(%d) USING embedding_vector::vector(%d)`,
		corpus.EmbeddingDimensions, corpus.EmbeddingDimensions)).Error
	if err != nil {
		return err
	}
	err = tx.Exec(
		`CREATE INDEX IF NOT EXISTS idx_embedding_vector_cosine ON embedding USING ivfflat (embedding_vector vector_cosine_ops) WITH (lists = 100)`).Error
	if err != nil {
		return err
	}

	var after int64
	if err := tx.Table(corpus.TableEmbedding).Count(&after).Error; err != nil {
		return err
	}
	if after != before {
		return fmt.Errorf("embedding row count changed during conversion (before=%d, after=%d)", before, after)
	}
	return nil
}
