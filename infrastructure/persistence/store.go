package persistence

import (
	"context"
	"fmt"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// Store provides read access to the corpus tables of one database.
type Store struct {
	db database.Database
}

// NewStore creates a Store.
func NewStore(db database.Database) Store {
	return Store{db: db}
}

// CountRows returns the row count of the named table.
func (s Store) CountRows(ctx context.Context, table string) (int64, error) {
	var count int64
	err := s.db.Session(ctx).Table(table).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return count, nil
}

// NodesByIDs loads the given nodes, preserving no particular order.
func (s Store) NodesByIDs(ctx context.Context, ids []int64) ([]corpus.Node, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []NodeModel
	err := s.db.Session(ctx).Where("id IN ?", ids).Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	nodes := make([]corpus.Node, len(models))
	for i, m := range models {
		nodes[i] = NodeToDomain(m)
	}
	return nodes, nil
}

// Publications returns all publications ordered by id.
func (s Store) Publications(ctx context.Context) ([]corpus.Publication, error) {
	var models []PublicationModel
	err := s.db.Session(ctx).Order("id ASC").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("load publications: %w", err)
	}
	pubs := make([]corpus.Publication, len(models))
	for i, m := range models {
		pubs[i] = PublicationToDomain(m)
	}
	return pubs, nil
}
