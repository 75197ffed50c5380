package sheetsclient

import (
	"fmt"
	"strings"

	"github.com/velofit/studio-optimizer/internal/config"
	"github.com/velofit/studio-optimizer/pkg/core/optimizer"
)

// reportHeader is the column layout of the published report.
var reportHeader = []interface{}{
	"Day", "Time", "Location",
	"Current Class", "Current Trainer",
	"Suggested Class", "Suggested Trainer",
	"Projected Check-ins", "Projected Fill %", "Confidence",
	"Score", "Reason",
}

// PublishReport writes the optimization result to the configured report tab,
// replacing any previous report.
func (c *Client) PublishReport(cfg *config.Config, result *optimizer.Result) error {
	if cfg.ReportSheetID == "" || cfg.ReportTab == "" {
		return fmt.Errorf("reportSheetID and reportTab must be configured to publish")
	}

	rows := [][]interface{}{reportHeader}
	for _, rep := range result.Replacements {
		rows = append(rows, []interface{}{
			rep.Original.Day,
			rep.Original.Time,
			rep.Original.Location,
			rep.Original.Class,
			rep.Original.Trainer,
			rep.Class,
			rep.Trainer,
			fmt.Sprintf("%.1f", rep.ProjectedCheckIns),
			fmt.Sprintf("%.0f", rep.ProjectedFillRate),
			string(rep.Confidence),
			fmt.Sprintf("%.0f", rep.Score),
			rep.Reason,
		})
	}

	rows = append(rows, []interface{}{})
	rows = append(rows, []interface{}{"Location", "Scheduled", "Minimum", "Status", "Notes"})
	for _, cov := range result.Coverage {
		status := "OK"
		if !cov.Met {
			status = "SHORT"
		}
		rows = append(rows, []interface{}{
			cov.Location,
			cov.Scheduled,
			cov.Minimum,
			status,
			strings.Join(cov.Reasons, "; "),
		})
	}

	if err := c.ClearValues(cfg.ReportSheetID, cfg.ReportTab); err != nil {
		return err
	}
	return c.UpdateValues(cfg.ReportSheetID, cfg.ReportTab, rows)
}
