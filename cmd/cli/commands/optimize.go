package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
)

// OptimizeCmd creates the optimize command
func OptimizeCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Run a schedule optimization pass",
		Long:  "Classify underperforming classes and suggest trainer/class replacements for them",
		RunE: func(cmd *cobra.Command, args []string) error {
			dryRun, _ := cmd.Flags().GetBool("dry-run")
			seed, _ := cmd.Flags().GetInt64("seed")
			strategy, _ := cmd.Flags().GetString("strategy")
			locations, _ := cmd.Flags().GetStringSlice("location")
			source, _ := cmd.Flags().GetString("source")

			app.Logger.Debug("optimize command",
				zap.Bool("dry_run", dryRun),
				zap.Int64("seed", seed),
				zap.String("strategy", strategy),
				zap.Strings("locations", locations),
				zap.String("source", source))

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

			// Display header
			fmt.Printf("\n🎯 Schedule Optimization Results\n\n")
			fmt.Printf("Strategy:        %s\n", result.Strategy)
			fmt.Printf("Seed:            %d\n", result.Seed)
			fmt.Printf("Slots Reviewed:  %d\n", result.SlotsConsidered)
			fmt.Printf("Underperforming: %d\n", result.Underperforming)
			fmt.Printf("High Performing: %d\n", result.HighPerforming)
			if result.SkippedByTime > 0 {
				fmt.Printf("Skipped (time):  %d\n", result.SkippedByTime)
			}
			if !result.StrategyKnown {
				fmt.Printf("Mode:            ⚠️  unknown strategy, balanced weights used\n")
			}
			if dryRun {
				fmt.Printf("Mode:            🧪 DRY RUN (not archived)\n")
			}
			fmt.Println()

			if len(result.Replacements) == 0 {
				fmt.Println("No replacements suggested - every reviewed class is holding its own.")
			} else {
				printReplacements(result)
			}

			printCoverage(result)

			if !dryRun && app.Cfg.DatabaseURL != "" {
				db, err := app.Store()
				if err != nil {
					return fmt.Errorf("failed to open store: %w", err)
				}
				runID, err := db.ArchiveRun(app.Ctx, result)
				if err != nil {
					return fmt.Errorf("failed to archive run: %w", err)
				}
				fmt.Printf("✅ Run archived with ID %s\n", runID)
			} else if dryRun {
				fmt.Println("💡 This was a dry run. Use without --dry-run to archive the result.")
			}

			return nil
		},
	}

	cmd.Flags().Bool("dry-run", false, "Run without archiving to the database")
	cmd.Flags().Int64("seed", 0, "Seed for jitter and reselection (0 uses settings, then run time)")
	cmd.Flags().String("strategy", "", "Scoring strategy (defaults to settings)")
	cmd.Flags().StringSlice("location", nil, "Limit the run to these locations")
	cmd.Flags().String("source", "csv", "History source: csv or db")

	return cmd
}

func printReplacements(result *optimizer.Result) {
	// ANSI color codes
	const (
		colorReset = "\033[0m"
		colorGreen = "\033[32m"
		colorBold  = "\033[1m"
	)

	fmt.Printf("📅 Suggested Replacements (%d):\n\n", len(result.Replacements))

	slotColWidth := 16
	classColWidth := 20
	trainerColWidth := 16
	for _, rep := range result.Replacements {
		if w := len(rep.Original.Day) + len(rep.Original.Time) + 1; w > slotColWidth {
			slotColWidth = w
		}
		if len(rep.Class) > classColWidth {
			classColWidth = len(rep.Class)
		}
		if len(rep.Trainer) > trainerColWidth {
			trainerColWidth = len(rep.Trainer)
		}
	}

	fmt.Printf("%s%-*s  %-*s  %-*s  %-*s  %s%s\n",
		colorBold,
		slotColWidth, "Slot",
		classColWidth, "Current -> Suggested",
		trainerColWidth, "Trainer",
		10, "Projected",
		"Confidence",
		colorReset)

	for _, rep := range result.Replacements {
		slot := fmt.Sprintf("%s %s", rep.Original.Day, rep.Original.Time)
		fmt.Printf("%-*s  ", slotColWidth, slot)
		fmt.Printf("%-*s  ", classColWidth, rep.Class)
		fmt.Printf("%s%-*s%s  ", colorGreen, trainerColWidth, rep.Trainer, colorReset)
		fmt.Printf("%-10s  ", fmt.Sprintf("%.1f (%.0f%%)", rep.ProjectedCheckIns, rep.ProjectedFillRate))
		fmt.Printf("%s\n", rep.Confidence)
		fmt.Printf("    was %s with %s at %s\n", rep.Original.Class, rep.Original.Trainer, rep.Original.Location)
		fmt.Printf("    %s\n", rep.Reason)
	}
	fmt.Println()
}

func printCoverage(result *optimizer.Result) {
	if len(result.Coverage) == 0 {
		return
	}

	fmt.Printf("🏢 Location Coverage:\n")
	for _, cov := range result.Coverage {
		status := "✅"
		if !cov.Met {
			status = "⚠️ "
		}
		fmt.Printf("  %s %s: %d/%d classes\n", status, cov.Location, cov.Scheduled, cov.Minimum)
		if len(cov.Reasons) > 0 {
			fmt.Printf("     %s\n", strings.Join(cov.Reasons, "; "))
		}
	}
	fmt.Println()
}
