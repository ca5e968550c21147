package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"babelbox/internal/config"
	"babelbox/internal/db"
	httpx "babelbox/internal/http"
	"babelbox/internal/review"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides HTTP_ADDR)")
	rootCmd.Flags().AddFlagSet(serveCmd.Flags())

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	gdb := openStore(cfg)

	ai := &review.ChatClient{
		APIKey:    cfg.AI.APIKey,
		URL:       cfg.AI.URL,
		Model:     cfg.AI.Model,
		MaxTokens: cfg.AI.MaxTokens,
		Timeout:   cfg.AI.Timeout,
	}
	if cfg.AI.APIKey == "" {
		log.Println("AI_API_KEY not set: content review will return fallback results")
	}

	r := httpx.NewRouter(cfg, gdb, ai)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("listening on %s\n", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if gdb != nil {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return nil
}

// openStore returns nil when no store is configured or the driver cannot be
// opened. The server then runs in degraded mode.
func openStore(cfg config.Config) *gorm.DB {
	if cfg.DatabaseURL == "" {
		log.Println("DATABASE_URL not set: items served from sample data, categories unavailable")
		return nil
	}
	gdb, err := db.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Printf("store open failed, running degraded: %v\n", err)
		return nil
	}
	return gdb
}
