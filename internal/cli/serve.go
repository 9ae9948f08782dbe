package cli

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/ppiankov/moltsignal/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ranked signal feed and viewer over HTTP",
	RunE:  serveAction,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, profile, err := loadSetup()
	if err != nil {
		return err
	}

	client, err := newFeedClient(cfg)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	gin.SetMode(gin.ReleaseMode)
	srv, err := server.New(client, profile, server.Options{
		SignalPath:  cfg.Server.SignalPath,
		PostURLBase: cfg.Server.PostURLBase,
		Logger:      slog.Default(),
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx, addr)
}
