package cli

import (
	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var watchFile string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-read the source periodically and alert on units in risky zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Watch(cmd.Context(), app.WatchOptions{File: watchFile})
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchFile, "file", "f", "", "Measurement file; defaults to source.path")
}
