package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"spotwatch/internal/app"
)

var (
	exportDay     string
	exportPNGPath string
	exportCSVPath string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a day's prices as CSV and/or PNG bar chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		if exportDay == "" {
			return fmt.Errorf("--day must be provided")
		}
		if err := validateDayKey(exportDay); err != nil {
			return err
		}

		opts := app.ExportOptions{
			Day:     exportDay,
			PNGPath: exportPNGPath,
			CSVPath: exportCSVPath,
		}

		return getApp().Export(cmd.Context(), opts)
	},
}

func validateDayKey(day string) error {
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return fmt.Errorf("invalid --day value (want YYYY-MM-DD): %w", err)
	}
	return nil
}

func init() {
	exportCmd.Flags().StringVar(&exportDay, "day", "", "Calendar day to export (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&exportPNGPath, "png", "", "Path to write PNG bar chart")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
}
