package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/booksmith/internal/config"
	"github.com/jackzampolin/booksmith/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Booksmith server",
	Long: `Start the Booksmith HTTP server.

The server exposes the book generation pipeline over HTTP:
  - /health                          Health check
  - /api/books                       Book CRUD
  - /api/books/{id}/generate         Full pipeline run
  - /api/books/{id}/export/{format}  ePub and text export

Examples:
  booksmith serve                    # Start on default port 8765
  booksmith serve --port 3000        # Start on custom port
  booksmith serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		configMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		configMgr.WatchConfig()

		host := serveHost
		port := servePort
		if !cmd.Flags().Changed("host") {
			host = configMgr.Get().Server.Host
		}
		if !cmd.Flags().Changed("port") {
			port = configMgr.Get().Server.Port
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: configMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8765, "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
