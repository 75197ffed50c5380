package commands

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/velofit/studio-optimizer/pkg/core/model"
	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// MetricsCmd creates the metrics command
func MetricsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show history-derived metrics for the active schedule",
		Long:  "Join the active schedule against session history and show per-slot metrics and the underperformance classification",
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			onlyUnder, _ := cmd.Flags().GetBool("underperforming")

			sessions, err := loadSessions(app, source)
			if err != nil {
				return fmt.Errorf("failed to load session history: %w", err)
			}
			slots, err := loadSlots(app, sessions)
			if err != nil {
				return fmt.Errorf("failed to load schedule: %w", err)
			}

			reg := rules.NewRegistry(app.Settings)
			classification := optimizer.Classify(slots, reg)

			underperforming := make(map[string]bool, len(classification.Underperforming))
			for _, slot := range classification.Underperforming {
				underperforming[slotKey(slot)] = true
			}

			fmt.Printf("\n📊 Schedule Metrics (%d slots, %d underperforming)\n\n",
				len(slots), len(classification.Underperforming))

			locations := make([]string, 0, len(classification.LocationAverages))
			for loc := range classification.LocationAverages {
				locations = append(locations, loc)
			}
			sort.Strings(locations)
			fmt.Println("Location averages:")
			for _, loc := range locations {
				fmt.Printf("  %s: %.1f check-ins\n", loc, classification.LocationAverages[loc])
			}
			fmt.Println()

			for _, slot := range slots {
				under := underperforming[slotKey(slot)]
				if onlyUnder && !under {
					continue
				}
				marker := "  "
				if under {
					marker = "⚠️ "
				}
				fmt.Printf("%s%-9s %s  %-25s %-18s %s\n",
					marker, slot.Day, slot.Time, slot.Class, slot.Trainer, slot.Location)
				fmt.Printf("     %.1f avg check-ins, %.0f%% fill, %.0f consistency (%s, n=%d)\n",
					slot.Metrics.AvgCheckIns, slot.Metrics.FillRate,
					slot.Metrics.Consistency, slot.Metrics.Confidence, slot.Metrics.SampleSize)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("source", "csv", "History source: csv or db")
	cmd.Flags().Bool("underperforming", false, "Show only underperforming slots")

	return cmd
}

func slotKey(slot model.ScheduleSlot) string {
	return strings.ToLower(fmt.Sprintf("%s|%s|%s|%s", slot.Location, slot.Day, slot.Time, slot.Class))
}
