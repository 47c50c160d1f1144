package main

import (
	"github.com/spf13/cobra"

	"github.com/Gen1023/financial-products/internal/backend"
	applog "github.com/Gen1023/financial-products/internal/log"
	"github.com/Gen1023/financial-products/internal/repos"
	"github.com/Gen1023/financial-products/internal/services"
)

var (
	backendPort string
	backendDSN  string
	backendSeed bool
)

var backendCmd = &cobra.Command{
	Use:   "backend",
	Short: "Run the SQLite stand-in for the products REST API",
	Long:  "Serves GET/POST /bp/products and GET/PUT/DELETE /bp/products/:id from a local SQLite file.",
	RunE:  runBackend,
}

func init() {
	backendCmd.Flags().StringVarP(&backendPort, "port", "p", "", "HTTP port (overrides BACKEND_PORT)")
	backendCmd.Flags().StringVar(&backendDSN, "db", "", "SQLite DSN (overrides BACKEND_DB_DSN)")
	backendCmd.Flags().BoolVar(&backendSeed, "seed", true, "insert demo products when missing")
}

func runBackend(cmd *cobra.Command, args []string) error {
	bc := cfg.Backend
	if backendPort != "" {
		bc.Port = backendPort
	}
	if backendDSN != "" {
		bc.DBDSN = backendDSN
	}
	if cmd.Flags().Changed("seed") {
		bc.Seed = backendSeed
	}

	closer := setupLogging()
	defer closer.Close()

	db, err := repos.OpenDB(bc.DBDSN, bc.Seed)
	if err != nil {
		applog.Logger().Error().Err(err).Str("dsn", bc.DBDSN).Msg("open database")
		return err
	}
	defer db.Close()

	catalog := services.NewCatalogService(repos.NewProductRepo(db))
	return run(backend.NewApp(catalog), bc.Addr(), "backend")
}
