// Package cmd - serve command
package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"breakeven/api"
	"breakeven/internal/config"
	"breakeven/internal/logging"
)

var serveAddr string

// serveCmd exposes the engine over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis engine over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		eng, err := newEngine()
		if err != nil {
			return err
		}

		log := logging.Named("api")
		server := api.NewServer(Version, eng, log, api.Options{MaxProducts: cfg.Server.MaxProducts})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("listening", zap.String("addr", addr), zap.String("version", Version))
		return server.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
}
