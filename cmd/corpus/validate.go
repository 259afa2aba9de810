package main

import (
	"github.com/spf13/cobra"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/infrastructure/syncer"
	"github.com/ccdr-explorer/corpus/internal/config"
)

func newValidateCommand() *cobra.Command {
	var (
		sourceEnv string
		targetEnv string
		resume    bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Run the sync safety gates without writing anything",
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
				config.WithSyncMode(mode),
			)
			s := syncer.NewSyncer(source, target, cfg).WithLogger(logger.Slog())
			if err := s.Preflight(ctx); err != nil {
				return err
			}

			srcStore := persistence.NewStore(source)
			dstStore := persistence.NewStore(target)
			for _, table := range corpus.AllTables() {
				srcCount, err := srcStore.CountRows(ctx, table)
				if err != nil {
					return err
				}
				dstCount, err := dstStore.CountRows(ctx, table)
				if err != nil {
					return err
				}
				logger.Info("table counts", "table", table,
					"source", srcCount, "target", dstCount)
			}

			logger.Info("all gates passed",
				"source", srcEndpoint.Addr(),
				"target", dstEndpoint.Addr())
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceEnv, "source-env", config.DefaultSourceEnvFile,
		"dotenv file describing the source database")
	cmd.Flags().StringVar(&targetEnv, "target-env", config.DefaultTargetEnvFile,
		"dotenv file describing the target database")
	cmd.Flags().BoolVar(&resume, "resume", false,
		"skip the target emptiness gate")
	return cmd
}
