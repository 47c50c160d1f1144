package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/Gen1023/financial-products/internal/config"
	applog "github.com/Gen1023/financial-products/internal/log"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "finproducts",
	Short: "Financial products catalog front end",
	Long: `finproducts serves a web UI to list, search, create, edit and delete
financial products stored behind a REST API. The backend subcommand runs a
SQLite stand-in for that API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backendCmd)
}

func setupLogging() io.Closer {
	closer, err := applog.Setup(applog.Options{Env: cfg.Env, Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		applog.Logger().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		closer, _ = applog.Setup(applog.Options{Env: cfg.Env, Level: cfg.LogLevel})
	}
	return closer
}

// run listens on addr until SIGINT/SIGTERM, then shuts the app down.
func run(app *fiber.App, addr, name string) error {
	log := applog.Logger()
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("server", name).Msg("listening")
		errc <- app.Listen(addr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return err
	case <-quit:
	}

	log.Info().Str("server", name).Msg("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
		return err
	}
	log.Info().Str("server", name).Msg("stopped")
	return nil
}
