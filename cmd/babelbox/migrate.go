package main

import (
	"fmt"
	"log"

	"babelbox/internal/config"
	"babelbox/internal/db"
	httpx "babelbox/internal/http"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the items and categories tables",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if sqlDB, err := gdb.DB(); err == nil {
		defer sqlDB.Close()
	}

	if err := db.AutoMigrate(gdb, httpx.Models()...); err != nil {
		return fmt.Errorf("migrating: %w", err)
	}
	log.Printf("schema up to date (%s)\n", cfg.DBDriver)
	return nil
}
