package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/Gen1023/financial-products/internal/client"
	apphttp "github.com/Gen1023/financial-products/internal/http"
	"github.com/Gen1023/financial-products/internal/http/handlers"
	applog "github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/metrics"
	"github.com/Gen1023/financial-products/internal/session"
)

var (
	servePort   string
	serveAPIURL string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the products web UI",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "HTTP port (overrides HTTP_PORT)")
	serveCmd.Flags().StringVar(&serveAPIURL, "api-url", "", "products API base URL (overrides API_BASE_URL)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveAPIURL != "" {
		cfg.APIBaseURL = serveAPIURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	closer := setupLogging()
	defer closer.Close()

	applog.Logger().Info().
		Str("env", cfg.Env).
		Str("api", cfg.APIBaseURL).
		Str("landing", cfg.Landing).
		Msg("starting products UI")

	api := client.NewClient(cfg.APIBaseURL, client.WithTimeout(cfg.APITimeout))
	sessions := session.NewStore(
		session.WithMaxAge(12*time.Hour),
		session.WithSecureCookie(cfg.Env == "production"),
	)
	metrics.TrackSessions(sessions.Len)
	deps := handlers.NewDeps(api, sessions, cfg)
	app := apphttp.NewApp(cfg, deps, nil)

	return run(app, cfg.Addr(), "ui")
}
