package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nutriscan-backend/cmd/config"
	migration "nutriscan-backend/cmd/database/migrate"
	"nutriscan-backend/internal/utils"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := config.ConnectDB()
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		defer sqlDB.Close()

		if serveMigrate {
			if err := migration.Migrate(db); err != nil {
				return err
			}
		}

		app, err := config.NewApp(db)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		port := utils.GetConfigOr("APP_PORT", "5000")
		go func() {
			log.Infow("server starting", "port", port)
			errCh <- app.Listen(fmt.Sprintf(":%s", port))
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		log.Infow("shutdown signal received, closing HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			return err
		}
		log.Infow("HTTP server closed")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", true, "Run database migrations before serving")
}
