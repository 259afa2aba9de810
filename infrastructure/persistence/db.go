// Package persistence provides database storage for the corpus schema.
package persistence

import (
	"context"

	"github.com/ccdr-explorer/corpus/internal/database"
)

// AutoMigrate creates the corpus schema. Production Postgres schemas are
// managed out of band (see infrastructure/migrate for one-shot
// conversions); this is used for local and test databases.
func AutoMigrate(ctx context.Context, db database.Database) error {
	return db.Session(ctx).AutoMigrate(
		&PublicationModel{},
		&DocumentModel{},
		&NodeModel{},
		&ContentDataModel{},
		&EmbeddingModel{},
	)
}
