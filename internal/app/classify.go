package app

import (
	"encoding/json"
	"fmt"

	"vibromon/internal/analysis"
)

type classifyOutput struct {
	analysis.Classification
	Vibration float64         `json:"vibration"`
	Power     float64         `json:"power"`
	Limits    analysis.Limits `json:"limits"`
}

// Classify prints the zone payload for a single reading.
func (a *App) Classify(opts ClassifyOptions) error {
	out := classifyOutput{
		Classification: analysis.Classify(opts.Vibration, opts.Power),
		Vibration:      opts.Vibration,
		Power:          opts.Power,
		Limits:         analysis.LimitsFor(opts.Power),
	}

	if opts.JSON {
		encoder := json.NewEncoder(a.Out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Fprintf(a.Out, "%s mm/s at %s kW\n", analysis.FormatValue(out.Vibration), analysis.FormatValue(out.Power))
	fmt.Fprintf(a.Out, "Limits: A<=%s  B<=%s  C<=%s mm/s\n",
		analysis.FormatValue(out.Limits.A), analysis.FormatValue(out.Limits.B), analysis.FormatValue(out.Limits.C))
	fmt.Fprintf(a.Out, "%s (%s)\n%s\n%s\n", out.Label, out.Color, out.Description, out.Recommendation)
	return nil
}
