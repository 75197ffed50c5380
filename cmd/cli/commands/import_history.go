package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/ingest"
)

// ImportHistoryCmd creates the importHistory command
func ImportHistoryCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "importHistory [csv_path]",
		Short: "Import a booking-system CSV export into the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.Cfg.HistoryCSV
			if len(args) > 0 {
				path = args[0]
			}

			app.Logger.Info("importHistory command", zap.String("path", path))

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open history csv: %w", err)
			}
			defer f.Close()

			records, skipped, err := ingest.ParseHistory(f)
			if err != nil {
				return fmt.Errorf("failed to parse history csv: %w", err)
			}

			db, err := app.Store()
			if err != nil {
				return err
			}
			if err := db.InsertSessions(app.Ctx, records); err != nil {
				return err
			}

			fmt.Printf("\n✅ Imported %d session records.\n", len(records))
			if len(skipped) > 0 {
				fmt.Printf("⚠️  Skipped %d malformed rows: %v\n", len(skipped), skipped)
			}
			fmt.Println()

			return nil
		},
	}
}
