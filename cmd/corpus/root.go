package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccdr-explorer/corpus/internal/config"
	"github.com/ccdr-explorer/corpus/internal/database"
	"github.com/ccdr-explorer/corpus/internal/log"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "corpus",
		Short:         "Corpus data layer tooling",
		Long:          "Sync, migrate, validate and search the publication corpus.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(
		newSyncCommand(),
		newValidateCommand(),
		newMigrateCommand(),
		newSearchCommand(),
		newVersionCommand(),
	)
	return cmd
}

// setupRuntime loads process configuration and installs the default
// logger.
func setupRuntime() (config.RuntimeEnv, *log.Logger, error) {
	env, err := config.LoadRuntimeEnv()
	if err != nil {
		return config.RuntimeEnv{}, nil, fmt.Errorf("load environment: %w", err)
	}
	logger := log.Configure(env)
	return env, logger, nil
}

// openEndpoint resolves a dotenv file to an endpoint and connects to it.
func openEndpoint(ctx context.Context, envFile string) (config.DatabaseEndpoint, database.Database, error) {
	endpoint, err := config.LoadEndpoint(envFile)
	if err != nil {
		return config.DatabaseEndpoint{}, database.Database{}, err
	}
	db, err := database.NewDatabase(ctx, endpoint.URL())
	if err != nil {
		return config.DatabaseEndpoint{}, database.Database{}, fmt.Errorf("connect to %s: %w", endpoint.Addr(), err)
	}
	return endpoint, db, nil
}
