package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ccdr-explorer/corpus/infrastructure/syncer"
	"github.com/ccdr-explorer/corpus/internal/config"
)

func newSyncCommand() *cobra.Command {
	var (
		sourceEnv          string
		targetEnv          string
		batchSize          int
		embeddingBatchSize int
		resume             bool
		dryRun             bool
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy node, contentdata and embedding tables from source to target",
		Long: `Copies the dependent corpus tables from the source database into the
target database inside a single transaction. Both sides must hold the
same schema and identical publication and document tables. In the
default strict mode the target tables must be empty; --resume upserts
over a partially transferred target instead.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, logger, err := setupRuntime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !cmd.Flags().Changed("source-env") {
				sourceEnv = env.SourceEnvFile
			}
			if !cmd.Flags().Changed("target-env") {
				targetEnv = env.TargetEnvFile
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = env.BatchSize
			}
			if !cmd.Flags().Changed("embedding-batch-size") {
				embeddingBatchSize = env.EmbeddingBatchSize
			}
			mode := env.Mode()
			if resume {
				mode = config.SyncModeResume
			}

			srcEndpoint, source, err := openEndpoint(ctx, sourceEnv)
			if err != nil {
				return err
			}
			defer source.Close()

			dstEndpoint, target, err := openEndpoint(ctx, targetEnv)
			if err != nil {
				return err
			}
			defer target.Close()

			cfg := config.NewSyncConfigWithOptions(
				config.WithSourceEndpoint(srcEndpoint),
				config.WithTargetEndpoint(dstEndpoint),
				config.WithNodeBatchSize(batchSize),
				config.WithEmbeddingBatchSize(embeddingBatchSize),
				config.WithSyncMode(mode),
			)
			logger.Slog().LogAttrs(ctx, slog.LevelInfo, "starting sync", cfg.LogAttrs()...)

			s := syncer.NewSyncer(source, target, cfg).WithLogger(logger.Slog())
			if dryRun {
				if err := s.Preflight(ctx); err != nil {
					return err
				}
				logger.Info("preflight passed, no rows transferred")
				return nil
			}

			result, err := s.Run(ctx)
			if err != nil {
				return err
			}
			logger.Info("sync finished",
				"nodes", result.Nodes,
				"contentdata", result.ContentData,
				"embeddings", result.Embeddings)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceEnv, "source-env", config.DefaultSourceEnvFile,
		"dotenv file describing the source database")
	cmd.Flags().StringVar(&targetEnv, "target-env", config.DefaultTargetEnvFile,
		"dotenv file describing the target database")
	cmd.Flags().IntVar(&batchSize, "batch-size", config.DefaultNodeBatchSize,
		"rows per node/contentdata batch")
	cmd.Flags().IntVar(&embeddingBatchSize, "embedding-batch-size", config.DefaultEmbeddingBatchSize,
		"rows per embedding batch")
	cmd.Flags().BoolVar(&resume, "resume", false,
		"upsert over a partially transferred target")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false,
		"run the safety gates without transferring rows")
	return cmd
}
