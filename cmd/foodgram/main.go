package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AntonEmtsov/foodgram-project-react/internal/app"
	"github.com/AntonEmtsov/foodgram-project-react/internal/data/db"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "foodgram",
		Short:   "Foodgram recipe sharing API",
		Version: Version,
		RunE:    runServe,
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Migrate the database and serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply schema migrations and exit",
		Long: `Create or update every table and install the recipe name index
selected by RECIPE_NAME_SCOPE (global, author or none).`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	log.Info("Loading configuration...")
	cfg, err := app.LoadConfig(log)
	if err != nil {
		log.Sync()
		return err
	}

	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("Server failed", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()
	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}

	dbService, err := db.NewService(cfg.DB, log)
	if err != nil {
		return err
	}
	defer dbService.Close()

	if err := db.Migrate(dbService.DB().WithContext(cmd.Context()), cfg.NameScope()); err != nil {
		return err
	}
	log.Info("Migrations applied", "driver", dbService.Driver(), "name_scope", cfg.NameScope())
	return nil
}

