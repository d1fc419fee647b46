package cli

import (
	"errors"
	"math"

	"github.com/spf13/cobra"

	"vibromon/internal/app"
)

var (
	classifyVibration float64
	classifyPower     float64
	classifyJSON      bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a single vibration reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("vibration") || !cmd.Flags().Changed("power") {
			return errors.New("--vibration and --power must be provided")
		}
		for _, v := range []float64{classifyVibration, classifyPower} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errors.New("--vibration and --power must be finite numbers")
			}
		}

		return getApp().Classify(app.ClassifyOptions{
			Vibration: classifyVibration,
			Power:     classifyPower,
			JSON:      classifyJSON,
		})
	},
}

func init() {
	classifyCmd.Flags().Float64Var(&classifyVibration, "vibration", 0, "Vibration velocity in mm/s")
	classifyCmd.Flags().Float64Var(&classifyPower, "power", 0, "Rated motor power in kW")
	classifyCmd.Flags().BoolVar(&classifyJSON, "json", false, "Print the payload as JSON")
}
