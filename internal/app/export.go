package app

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"vibromon/internal/analysis"
)

// Export writes classified equipment as CSV and/or one PNG trend chart per unit.
func (a *App) Export(ctx context.Context, opts ExportOptions) error {
	if opts.CSVPath == "" && opts.PNGDir == "" {
		return errors.New("at least one of --csv or --png-dir must be provided")
	}

	_, items, err := a.load(ctx, opts.File)
	if err != nil {
		return err
	}

	if opts.ID != "" {
		items = selectByID(items, opts.ID)
		if len(items) == 0 {
			return fmt.Errorf("equipment %q not found", opts.ID)
		}
	}
	if len(items) == 0 {
		a.Logger.Info().Msg("no equipment found for export")
		return nil
	}

	if opts.CSVPath != "" {
		if err := writeEquipmentCSV(opts.CSVPath, items); err != nil {
			return err
		}
		a.Logger.Info().Int("units", len(items)).Str("path", opts.CSVPath).Msg("csv exported")
	}

	if opts.PNGDir != "" {
		if err := os.MkdirAll(opts.PNGDir, 0o755); err != nil {
			return err
		}
		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(opts.PNGDir, chartFileName(item.ID))
			if err := writeTrendPNG(path, item, a.Config.Export.ChartWidth, a.Config.Export.ChartHeight); err != nil {
				return fmt.Errorf("chart for %s: %w", item.ID, err)
			}
		}
		a.Logger.Info().Int("units", len(items)).Str("dir", opts.PNGDir).Msg("charts exported")
	}

	return nil
}

func selectByID(items []analysis.Classified, id string) []analysis.Classified {
	for _, item := range items {
		if item.ID == id {
			return []analysis.Classified{item}
		}
	}
	return nil
}

func writeEquipmentCSV(path string, items []analysis.Classified) (err error) {
	if err := ensureDir(path); err != nil {
		return err
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(file, &err)

	writer := csv.NewWriter(file)

	header := []string{
		"id", "name", "motor", "power_kw", "latest_mm_s", "measurements",
		"zone", "zone_label", "limit_a", "limit_b", "limit_c",
		"trend", "trend_change_pct", "recommendation",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, item := range items {
		limits := item.Limits()
		record := []string{
			item.ID,
			item.Name,
			item.Motor,
			analysis.FormatValue(item.Power),
			analysis.FormatValue(item.Latest()),
			fmt.Sprint(len(item.Measurements)),
			string(item.Zone),
			item.ZoneLabel,
			analysis.FormatValue(limits.A),
			analysis.FormatValue(limits.B),
			analysis.FormatValue(limits.C),
			string(item.Trend),
			analysis.FormatPercent(item.TrendChangePercent),
			item.ZoneRecommendation,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// writeTrendPNG plots the readings against the unit's A/B/C limits.
func writeTrendPNG(path string, item analysis.Classified, width, height int) (err error) {
	n := len(item.Measurements)
	x := make([]float64, n)
	y := make([]float64, n)
	ticks := make([]chart.Tick, n)
	for i, m := range item.Measurements {
		x[i] = float64(i)
		y[i] = m.Value
		label := m.Time
		if label == "" {
			label = fmt.Sprint(i + 1)
		}
		ticks[i] = chart.Tick{Value: float64(i), Label: label}
	}

	// limit lines span at least one unit so a single reading still has an x range
	lastX := 1.0
	if n > 1 {
		lastX = float64(n - 1)
	}
	limits := item.Limits()
	limitLine := func(name string, v float64, color drawing.Color) chart.Series {
		return chart.ContinuousSeries{
			Name:    fmt.Sprintf("%s %s mm/s", name, analysis.FormatValue(v)),
			XValues: []float64{0, lastX},
			YValues: []float64{v, v},
			Style: chart.Style{
				StrokeColor:     color,
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{5, 5},
			},
		}
	}

	valueFormatter := func(v interface{}) string {
		return chart.FloatValueFormatterWithFormat(v, "%.1f")
	}
	graph := chart.Chart{
		Title:  fmt.Sprintf("%s %s: %s, trend %s", item.ID, item.Name, item.ZoneLabel, item.Trend),
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 50},
		},
		XAxis: chart.XAxis{
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "Vibration (mm/s)",
			ValueFormatter: valueFormatter,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Vibration",
				XValues: x,
				YValues: y,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("0ea5e9"),
					StrokeWidth: 3,
					DotWidth:    3,
					DotColor:    drawing.ColorFromHex("0ea5e9"),
				},
			},
			limitLine("A", limits.A, drawing.ColorFromHex("22c55e")),
			limitLine("B", limits.B, drawing.ColorFromHex("eab308")),
			limitLine("C", limits.C, drawing.ColorFromHex("ef4444")),
		},
	}
	if n == 0 {
		graph.Series = graph.Series[1:]
		graph.XAxis.Ticks = nil
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(file, &err)

	return graph.Render(chart.PNG, file)
}

func chartFileName(id string) string {
	safe := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.' {
			return r
		}
		return '_'
	}, id)
	if safe == "" {
		safe = "unit"
	}
	return safe + ".png"
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
