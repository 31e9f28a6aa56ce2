package cli

import (
	"github.com/spf13/cobra"

	"spotwatch/internal/app"
)

var (
	showDay string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display a day's hourly prices and statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		if showDay != "" {
			if err := validateDayKey(showDay); err != nil {
				return err
			}
		}

		opts := app.ShowOptions{
			Day: showDay,
		}

		return getApp().Show(cmd.Context(), opts)
	},
}

func init() {
	showCmd.Flags().StringVar(&showDay, "day", "", "Calendar day to display (YYYY-MM-DD, defaults to today)")
}
