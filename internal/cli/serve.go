package cli

import (
	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	serveFile string
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the classified equipment as a read-only JSON API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Serve(cmd.Context(), app.ServeOptions{
			File: serveFile,
			Addr: serveAddr,
		})
	},
}

func init() {
	serveCmd.Flags().StringVarP(&serveFile, "file", "f", "", "Measurement file; defaults to source.path")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (defaults to server.addr)")
}
