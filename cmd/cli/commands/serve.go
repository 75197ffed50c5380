package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/internal/server"
)

const defaultPort = 8080

// ServeCmd creates the serve command
func ServeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the optimizer and its read models over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")

			port := app.Cfg.Port
			if port == 0 {
				port = defaultPort
			}

			srv := server.New(app.Logger, &fileDataSource{app: app, source: source}, app.Settings)

			app.Logger.Info("Starting HTTP server", zap.Int("port", port))
			fmt.Printf("🚀 Serving on http://localhost:%d\n", port)

			return srv.Router().Run(fmt.Sprintf(":%d", port))
		},
	}

	cmd.Flags().String("source", "csv", "History source: csv or db")

	return cmd
}
