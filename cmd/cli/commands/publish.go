package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/internal/config"
	"github.com/velofit/studio-optimizer/pkg/clients/sheetsclient"
	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
)

// PublishCmd creates the publish command
func PublishCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Run an optimization pass and publish the report to Google Sheets",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetInt64("seed")
			strategy, _ := cmd.Flags().GetString("strategy")
			locations, _ := cmd.Flags().GetStringSlice("location")
			source, _ := cmd.Flags().GetString("source")

			app.Logger.Info("publish command",
				zap.String("sheet_id", app.Cfg.ReportSheetID),
				zap.String("tab", app.Cfg.ReportTab))

			sessions, err := loadSessions(app, source)
			if err != nil {
				return fmt.Errorf("failed to load session history: %w", err)
			}
			slots, err := loadSlots(app, sessions)
			if err != nil {
				return fmt.Errorf("failed to load schedule: %w", err)
			}

			result := optimizer.Run(slots, sessions, app.Settings, optimizer.Request{
				Locations: locations,
				Strategy:  optimizer.Strategy(strategy),
				Seed:      seed,
			}, app.Logger)

			oauthCfg, err := config.LoadOAuthClientWithEnv(app.Env)
			if err != nil {
				return fmt.Errorf("failed to load OAuth client config: %w", err)
			}
			client, err := sheetsclient.NewClient(app.Ctx, oauthCfg)
			if err != nil {
				return fmt.Errorf("failed to create sheets client: %w", err)
			}

			if err := client.PublishReport(app.Cfg, result); err != nil {
				return fmt.Errorf("failed to publish report: %w", err)
			}

			fmt.Printf("\n✅ Published %d replacements to tab %q.\n\n", len(result.Replacements), app.Cfg.ReportTab)
			return nil
		},
	}

	cmd.Flags().Int64("seed", 0, "Seed for jitter and reselection (0 uses settings, then run time)")
	cmd.Flags().String("strategy", "", "Scoring strategy (defaults to settings)")
	cmd.Flags().StringSlice("location", nil, "Limit the run to these locations")
	cmd.Flags().String("source", "csv", "History source: csv or db")

	return cmd
}
