package cli

import (
	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	showFile string
	showZone string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display zone counters and the equipment table",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Show(cmd.Context(), app.ShowOptions{
			File:    showFile,
			MinZone: showZone,
		})
	},
}

func init() {
	showCmd.Flags().StringVarP(&showFile, "file", "f", "", "Measurement file (.csv, .txt, .xlsx); defaults to source.path")
	showCmd.Flags().StringVar(&showZone, "zone", "", "Only list units at this zone or worse (A-D)")
}
