package syncer

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/internal/config"
	"github.com/ccdr-explorer/corpus/internal/database"
)

// Result reports how many rows a sync run wrote per table.
type Result struct {
	Nodes       int64
	ContentData int64
	Embeddings  int64
}

// Syncer copies the dependent corpus tables from a source database into a
// target database. All target writes happen in one transaction: a failed
// run leaves the target exactly as it was.
type Syncer struct {
	source database.Database
	target database.Database
	cfg    config.SyncConfig
	logger *slog.Logger
}

// NewSyncer creates a Syncer over two open databases. The endpoints in
// cfg are not dialed here; only its mode and batch sizes apply.
func NewSyncer(source, target database.Database, cfg config.SyncConfig) Syncer {
	return Syncer{
		source: source,
		target: target,
		cfg:    cfg,
		logger: slog.Default(),
	}
}

// WithLogger returns a copy of the Syncer using the given logger.
func (s Syncer) WithLogger(logger *slog.Logger) Syncer {
	s.logger = logger
	return s
}

// Preflight runs the read-only gates (schema parity, anchor parity,
// target emptiness in strict mode, document reference closure) without
// transferring anything.
func (s Syncer) Preflight(ctx context.Context) error {
	src := s.source.Session(ctx)
	dst := s.target.Session(ctx)
	return s.gates(ctx, src, dst)
}

// Run executes a full sync and returns the per-table row counts written.
// Any error rolls back the target transaction.
func (s Syncer) Run(ctx context.Context) (Result, error) {
	src := s.source.Session(ctx)
	var result Result
	err := database.WithTransaction(ctx, s.target, func(tx *gorm.DB) error {
		if err := s.gates(ctx, src, tx); err != nil {
			return err
		}

		srcCounts, err := CountDependents(src)
		if err != nil {
			return err
		}
		s.logger.InfoContext(ctx, "source counts",
			"nodes", srcCounts.Nodes,
			"contentdata", srcCounts.ContentData,
			"embeddings", srcCounts.Embeddings)

		upsert := s.cfg.Mode() == config.SyncModeResume

		s.logger.InfoContext(ctx, "transferring nodes")
		result.Nodes, err = transferNodes(src, tx, s.cfg.NodeBatchSize())
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "transferring contentdata", "nodes_written", result.Nodes)
		result.ContentData, err = transferContentData(src, tx, s.cfg.NodeBatchSize(), upsert)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "transferring embeddings", "contentdata_written", result.ContentData)
		result.Embeddings, err = transferEmbeddings(src, tx, s.cfg.EmbeddingBatchSize(), upsert)
		if err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "resetting sequences", "embeddings_written", result.Embeddings)
		if err := ResetSequences(tx); err != nil {
			return err
		}

		s.logger.InfoContext(ctx, "validating row counts")
		return VerifyCounts(srcCounts, tx)
	})
	if err != nil {
		return Result{}, err
	}
	s.logger.InfoContext(ctx, "sync complete",
		"nodes", result.Nodes,
		"contentdata", result.ContentData,
		"embeddings", result.Embeddings)
	return result, nil
}

func (s Syncer) gates(ctx context.Context, src, dst *gorm.DB) error {
	s.logger.InfoContext(ctx, "verifying schema parity")
	if err := VerifySchemas(src, dst, corpus.AllTables()); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "verifying anchor tables")
	if err := VerifyAnchors(src, dst); err != nil {
		return err
	}

	if s.cfg.Mode() == config.SyncModeStrict {
		s.logger.InfoContext(ctx, "verifying target is empty")
		if err := VerifyTargetEmpty(dst); err != nil {
			return err
		}
	}

	s.logger.InfoContext(ctx, "verifying document references")
	return VerifyDocumentRefs(src, dst)
}
