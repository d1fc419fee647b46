package cli

import (
	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	reportFile string
	reportOut  string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write a condition report grouped by zone",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Report(cmd.Context(), app.ReportOptions{
			File:    reportFile,
			OutPath: reportOut,
		})
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFile, "file", "f", "", "Measurement file; defaults to source.path")
	reportCmd.Flags().StringVarP(&reportOut, "out", "o", "", "Write the report to this path instead of stdout")
}
