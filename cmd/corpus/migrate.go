package main

import (
	"github.com/spf13/cobra"

	"github.com/ccdr-explorer/corpus/infrastructure/migrate"
	"github.com/ccdr-explorer/corpus/internal/config"
)

func newMigrateCommand() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema conversions to one database",
		Long: `Applies the one-shot schema conversions (metadata column rename,
legacy column removal, embedding vector conversion) to the database
described by the given dotenv file. Every step is guarded, so rerunning
is safe.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, logger, err := setupRuntime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !cmd.Flags().Changed("env") {
				envFile = env.SourceEnvFile
			}

			endpoint, db, err := openEndpoint(ctx, envFile)
			if err != nil {
				return err
			}
			defer db.Close()

			logger.Info("migrating", "database", endpoint.Addr())
			if err := migrate.Apply(ctx, db, logger.Slog()); err != nil {
				return err
			}
			logger.Info("migrations complete", "database", endpoint.Addr())
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env", config.DefaultSourceEnvFile,
		"dotenv file describing the database to migrate")
	return cmd
}
