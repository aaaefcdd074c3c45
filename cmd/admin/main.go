package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tendant/simple-catalog/pkg/catalog"
	"github.com/tendant/simple-catalog/pkg/catalog/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env is optional; real environment variables win
	_ = godotenv.Load()

	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func NewRootCommand() *cobra.Command {
	var configFile string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "catalog-admin",
		Short: "Catalog admin CLI",
		Long: `Catalog admin command line interface.

Manages the catalog database directly: creates the schema, seeds categories
and content from a YAML file and lists what is stored.

Configuration comes from environment variables (DATABASE_URL, DB_SCHEMA, ...),
an optional .env file in the current directory and an optional --config file.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (optional, YAML or .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(NewMigrateCommand())
	rootCmd.AddCommand(NewSeedCommand())
	rootCmd.AddCommand(NewCategoriesCommand())
	rootCmd.AddCommand(NewContentCommand())
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}

// loadConfig reads the optional config file, then the environment.
func loadConfig(cmd *cobra.Command) (*config.ServerConfig, error) {
	configFile, _ := cmd.Flags().GetString("config")

	var opts []config.Option
	if configFile != "" {
		opts = append(opts, config.WithFile(configFile))
	}
	opts = append(opts, config.WithEnv())
	return config.Load(opts...)
}

func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// openRepository builds the repository selected by the configuration. The
// returned close function must be called when the command is done.
func openRepository(ctx context.Context, cmd *cobra.Command) (*config.ServerConfig, catalog.Repository, func(), error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	newLogger(cmd).Debug("Opening catalog", "database", cfg.DatabaseType, "schema", cfg.DBSchema)

	repo, closeRepo, err := cfg.BuildRepository(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, repo, closeRepo, nil
}

// openService builds the catalog service for a command
func openService(ctx context.Context, cmd *cobra.Command) (catalog.Service, func(), error) {
	cfg, repo, closeRepo, err := openRepository(ctx, cmd)
	if err != nil {
		return nil, nil, err
	}
	svc, err := cfg.BuildService(repo, newLogger(cmd))
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return svc, closeRepo, nil
}
