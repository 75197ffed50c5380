package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/core/profiler"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// TrainersCmd creates the trainers command
func TrainersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trainers <location>",
		Short: "List trainer performance profiles at a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			location := args[0]
			source, _ := cmd.Flags().GetString("source")

			app.Logger.Debug("trainers command", zap.String("location", location))

			sessions, err := loadSessions(app, source)
			if err != nil {
				return fmt.Errorf("failed to load session history: %w", err)
			}
			slots, err := loadSlots(app, sessions)
			if err != nil {
				return fmt.Errorf("failed to load schedule: %w", err)
			}

			reg := rules.NewRegistry(app.Settings)
			profiles := profiler.Build(sessions, slots, reg, time.Now())

			trainers := profiles.AtLocation(location)
			if len(trainers) == 0 {
				fmt.Printf("\nNo trainer history found for %s.\n", location)
				return nil
			}

			fmt.Printf("\nFound %d trainers at %s:\n\n", len(trainers), location)
			for _, tm := range trainers {
				badges := ""
				if tm.IsPriority {
					badges += " ⭐"
				}
				if tm.IsNewTrainer {
					badges += " 🌱"
				}
				fmt.Printf("- %s%s\n", tm.Trainer, badges)
				fmt.Printf("    %d sessions, %.1f avg check-ins, %.0f%% fill\n",
					tm.TotalSessions, tm.AvgCheckIns, tm.FillRate)
				fmt.Printf("    %dh/week scheduled (%dh to target)\n",
					tm.WeeklyHours, tm.HoursToTarget)
				for _, cp := range tm.DisplayTopClasses() {
					fmt.Printf("    • %s: %.1f avg check-ins over %d sessions\n",
						cp.Class, cp.AvgCheckIns, cp.Sessions)
				}
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("source", "csv", "History source: csv or db")

	return cmd
}
