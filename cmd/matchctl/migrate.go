package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"smart-resume-match/internal/config"
	"smart-resume-match/internal/database/migration"
	dbpostgres "smart-resume-match/internal/database/postgres"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending SQL migrations",
	Long:  "Connects with the DB_* settings and applies the versioned SQL migrations, embedded or from --dir.",
	RunE:  runMigrate,
}

var migrateDir string

func init() {
	migrateCmd.Flags().StringVar(&migrateDir, "dir", "", "Directory of V<version>__<name>.sql files (defaults to the embedded set)")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cfg.Database.Enabled() {
		return errors.New("database is not configured: set DB_HOST, DB_NAME and DB_USER")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect database: %w", err)
	}
	defer func() {
		_ = db.Close()
	}()

	dir := migrateDir
	if dir == "" {
		dir = cfg.Database.MigrationsDir
	}
	r := migration.Runner{Dir: dir, Logger: log.New(os.Stdout, "", log.LstdFlags)}
	if err := r.Run(ctx, db.SQLDB()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}
