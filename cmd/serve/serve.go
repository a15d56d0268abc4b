// Package serve implements the serve command.
package serve

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/budget-sim/cmd/root"
	"fjacquet/budget-sim/internal/server"

	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulator over HTTP",
	Long: `Start an HTTP server exposing:
  POST /api/simulate             run a simulation from a JSON budget
  GET  /api/download/{filename}  download an exported CSV
  GET  /healthz                  liveness check`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		cfg := c.GetConfig()

		addr := cfg.Server.Address
		if address != "" {
			addr = address
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(c.GetService(), c.GetExporter(), c.GetLogger())
		return srv.ListenAndServe(ctx, addr,
			time.Duration(cfg.Server.ReadTimeoutSeconds)*time.Second,
			time.Duration(cfg.Server.WriteTimeoutSeconds)*time.Second)
	},
}

func init() {
	Cmd.Flags().StringVarP(&address, "addr", "a", "", "Listen address (default from config)")
}
