package cli

import (
	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	exportFile    string
	exportCSVPath string
	exportPNGDir  string
	exportID      string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export classified equipment as CSV and/or PNG trend charts",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			File:    exportFile,
			CSVPath: exportCSVPath,
			PNGDir:  exportPNGDir,
			ID:      exportID,
		})
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Measurement file; defaults to source.path")
	exportCmd.Flags().StringVar(&exportCSVPath, "csv", "", "Path to write CSV data")
	exportCmd.Flags().StringVar(&exportPNGDir, "png-dir", "", "Directory to write one PNG chart per unit")
	exportCmd.Flags().StringVar(&exportID, "id", "", "Export a single unit")
}
