package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/velofit/studio-optimizer/internal/config"
	"github.com/velofit/studio-optimizer/pkg/core/rules"
)

// SettingsCmd creates the settings command
func SettingsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the effective optimization settings",
		Long:  "Print the persisted settings merged over defaults, or write a fresh default settings file with --init",
		RunE: func(cmd *cobra.Command, args []string) error {
			initFile, _ := cmd.Flags().GetBool("init")

			if initFile {
				if err := config.SaveSettings(app.Cfg.SettingsFile, rules.DefaultSettings()); err != nil {
					return err
				}
				fmt.Printf("✅ Wrote default settings to %s\n", app.Cfg.SettingsFile)
				return nil
			}

			data, err := json.MarshalIndent(app.Settings, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal settings: %w", err)
			}
			fmt.Println(string(data))
			return nil
		},
	}

	cmd.Flags().Bool("init", false, "Write a default settings file and exit")

	return cmd
}
