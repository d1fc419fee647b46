package app

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"vibromon/internal/analysis"
)

// Show prints the summary counters and the equipment table.
func (a *App) Show(ctx context.Context, opts ShowOptions) error {
	floor := analysis.ZoneA
	if opts.MinZone != "" {
		z, err := analysis.ParseZone(opts.MinZone)
		if err != nil {
			return fmt.Errorf("invalid --zone value: %w", err)
		}
		floor = z
	}

	path, items, err := a.load(ctx, opts.File)
	if err != nil {
		return err
	}

	summary := analysis.Summarize(items)
	fmt.Fprintf(a.Out, "Source: %s\n", path)
	fmt.Fprintf(a.Out, "Units: %d  Normal: %d  Attention: %d  (A=%d B=%d C=%d D=%d)\n\n",
		summary.Total, summary.Normal, summary.Attention,
		summary.ByZone[analysis.ZoneA], summary.ByZone[analysis.ZoneB],
		summary.ByZone[analysis.ZoneC], summary.ByZone[analysis.ZoneD])

	shown := analysis.FilterMinZone(items, floor)
	if len(shown) == 0 {
		fmt.Fprintln(a.Out, "no equipment found")
		return nil
	}

	writer := tabwriter.NewWriter(a.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tName\tMotor\tkW\tLatest mm/s\tZone\tTrend\tChange%")

	for _, item := range shown {
		fmt.Fprintf(
			writer,
			"%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			item.ID,
			sanitizeInline(item.Name),
			sanitizeInline(item.Motor),
			analysis.FormatValue(item.Power),
			analysis.FormatValue(item.Latest()),
			item.Zone,
			item.Trend,
			analysis.FormatPercent(item.TrendChangePercent),
		)
	}

	return writer.Flush()
}

// Inspect prints one unit's card.
func (a *App) Inspect(ctx context.Context, opts InspectOptions) error {
	_, items, err := a.load(ctx, opts.File)
	if err != nil {
		return err
	}

	for _, item := range items {
		if item.ID == opts.ID {
			writeCard(a.Out, item)
			return nil
		}
	}
	return fmt.Errorf("equipment %q not found", opts.ID)
}

func writeCard(out io.Writer, item analysis.Classified) {
	limits := item.Limits()

	fmt.Fprintf(out, "%s  %s\n", item.ID, item.Name)
	fmt.Fprintf(out, "Motor: %s\n", item.Motor)
	fmt.Fprintf(out, "Power: %s kW\n", analysis.FormatValue(item.Power))
	fmt.Fprintf(out, "Latest: %s mm/s\n", analysis.FormatValue(item.Latest()))
	fmt.Fprintf(out, "Limits: A<=%s  B<=%s  C<=%s mm/s\n",
		analysis.FormatValue(limits.A), analysis.FormatValue(limits.B), analysis.FormatValue(limits.C))
	fmt.Fprintf(out, "\n%s\n%s\n%s\n", item.ZoneLabel, item.ZoneDescription, item.ZoneRecommendation)
	fmt.Fprintf(out, "\nTrend: %s\n%s\n", item.Trend, item.TrendDescription)

	if len(item.Measurements) == 0 {
		return
	}
	writer := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "\nTime\tmm/s\tZone")
	for _, m := range item.Measurements {
		fmt.Fprintf(writer, "%s\t%s\t%s\n", sanitizeInline(m.Time), analysis.FormatValue(m.Value), limits.ZoneFor(m.Value))
	}
	_ = writer.Flush()
}

func sanitizeInline(v string) string {
	cleaned := strings.ReplaceAll(v, "\n", " ")
	cleaned = strings.ReplaceAll(cleaned, "\r", " ")
	cleaned = strings.ReplaceAll(cleaned, "\t", " ")
	return cleaned
}
