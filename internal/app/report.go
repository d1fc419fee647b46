package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"vibromon/internal/analysis"
)

// Report writes a text report grouping units from the most to the least severe zone.
func (a *App) Report(ctx context.Context, opts ReportOptions) error {
	path, items, err := a.load(ctx, opts.File)
	if err != nil {
		return err
	}

	if opts.OutPath == "" {
		return writeReport(a.Out, path, a.Clock.Now(), items)
	}

	if err := writeReportFile(opts.OutPath, path, a.Clock.Now(), items); err != nil {
		return fmt.Errorf("write report %s: %w", opts.OutPath, err)
	}
	a.Logger.Info().Str("path", opts.OutPath).Int("units", len(items)).Msg("report written")
	return nil
}

func writeReportFile(path, source string, at time.Time, items []analysis.Classified) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(file, &err)

	return writeReport(file, source, at, items)
}

// writeReport buffers the output; the first write error is returned by Flush.
func writeReport(w io.Writer, source string, at time.Time, items []analysis.Classified) error {
	out := bufio.NewWriter(w)
	summary := analysis.Summarize(items)
	rule := strings.Repeat("=", 60)

	fmt.Fprintln(out, rule)
	fmt.Fprintln(out, "VIBRATION CONDITION REPORT")
	fmt.Fprintln(out, rule)
	fmt.Fprintf(out, "Source:    %s\n", source)
	fmt.Fprintf(out, "Generated: %s UTC\n", at.UTC().Format(time.RFC3339))
	fmt.Fprintf(out, "Units: %d  Normal: %d  Attention: %d\n", summary.Total, summary.Normal, summary.Attention)
	fmt.Fprintf(out, "Trends: rising %d, stable %d, falling %d\n",
		summary.ByTrend[analysis.TrendRising], summary.ByTrend[analysis.TrendStable], summary.ByTrend[analysis.TrendFalling])

	for i := len(analysis.Zones) - 1; i >= 0; i-- {
		zone := analysis.Zones[i]
		info := zone.Info()

		fmt.Fprintf(out, "\n%s (%d)\n", info.Label, summary.ByZone[zone])
		fmt.Fprintln(out, strings.Repeat("-", 60))
		if summary.ByZone[zone] == 0 {
			fmt.Fprintln(out, "  none")
			continue
		}
		fmt.Fprintf(out, "  %s\n", info.Recommendation)
		for _, item := range items {
			if item.Zone != zone {
				continue
			}
			fmt.Fprintf(out, "  - %s %s (%s, %s kW): %s mm/s, %s\n",
				item.ID, sanitizeInline(item.Name), sanitizeInline(item.Motor),
				analysis.FormatValue(item.Power),
				analysis.FormatValue(item.Latest()),
				item.TrendDescription)
		}
	}
	return out.Flush()
}

// closeInto closes c and keeps its error when nothing failed before.
func closeInto(c io.Closer, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = cerr
	}
}
