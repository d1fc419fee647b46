package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	inspectFile string
	inspectID   string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show one unit's zone, limits, trend and readings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if inspectID == "" {
			return fmt.Errorf("--id must be provided")
		}
		return getApp().Inspect(cmd.Context(), app.InspectOptions{
			File: inspectFile,
			ID:   inspectID,
		})
	},
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectFile, "file", "f", "", "Measurement file; defaults to source.path")
	inspectCmd.Flags().StringVar(&inspectID, "id", "", "Equipment ID")
}
