package ingest

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"vibromon/internal/analysis"
)

// Options tune how a source file is read.
type Options struct {
	Sheet string
}

// Stats describes what happened while reading a source.
type Stats struct {
	Rows       int
	Skipped    int
	Equipment  int
	ModifiedAt time.Time
	Size       int64
}

// Result is the normalised record set produced from a source file.
type Result struct {
	Records []analysis.Record
	Stats   Stats
}

// Loader reads measurement files into equipment records.
type Loader struct {
	opts     Options
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewLoader constructs a Loader.
func NewLoader(opts Options, logger zerolog.Logger) *Loader {
	return &Loader{
		opts:     opts,
		validate: validator.New(),
		logger:   logger.With().Str("component", "ingest").Logger(),
	}
}

// Load reads path and groups its rows into records.
func (l *Loader) Load(ctx context.Context, path string) (Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat source: %w", err)
	}

	rows, err := readRows(path, l.opts.Sheet)
	if err != nil {
		return Result{}, err
	}

	result, err := l.build(ctx, rows)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", path, err)
	}
	result.Stats.ModifiedAt = info.ModTime()
	result.Stats.Size = info.Size()

	l.logger.Debug().
		Str("path", path).
		Int("rows", result.Stats.Rows).
		Int("skipped", result.Stats.Skipped).
		Int("equipment", result.Stats.Equipment).
		Msg("source loaded")
	return result, nil
}

func (l *Loader) build(ctx context.Context, rows [][]string) (Result, error) {
	header, body, err := splitHeader(rows)
	if err != nil {
		return Result{}, err
	}

	index, err := mapHeader(header)
	if err != nil {
		return Result{}, err
	}

	order := make([]string, 0)
	byID := make(map[string]*analysis.Record)
	stats := Stats{}

	for n, row := range body {
		if n%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return Result{}, err
			}
		}
		if isBlank(row) {
			continue
		}
		stats.Rows++

		id := cell(row, index, ColumnID)
		if id == "" {
			stats.Skipped++
			continue
		}

		rec, ok := byID[id]
		if !ok {
			rec = &analysis.Record{ID: id}
			byID[id] = rec
			order = append(order, id)
		}
		if rec.Name == "" {
			rec.Name = cell(row, index, ColumnName)
		}
		if rec.Motor == "" {
			rec.Motor = cell(row, index, ColumnMotor)
		}
		if rec.Power == 0 {
			rec.Power = ParseNumber(cell(row, index, ColumnPower))
		}

		raw := cell(row, index, ColumnValue)
		if raw == "" {
			continue
		}
		rec.Measurements = append(rec.Measurements, analysis.Measurement{
			Time:  cell(row, index, ColumnTime),
			Value: ParseNumber(raw),
		})
	}

	records := make([]analysis.Record, 0, len(order))
	for _, id := range order {
		rec := *byID[id]
		if err := l.validate.Struct(rec); err != nil {
			return Result{}, fmt.Errorf("invalid record %q: %w", id, err)
		}
		records = append(records, rec)
	}
	stats.Equipment = len(records)

	return Result{Records: records, Stats: stats}, nil
}

// splitHeader skips leading blank rows and returns the first non-blank row as header.
func splitHeader(rows [][]string) ([]string, [][]string, error) {
	for i, row := range rows {
		if !isBlank(row) {
			return row, rows[i+1:], nil
		}
	}
	return nil, nil, ErrEmptySheet
}

func cell(row []string, index map[Column]int, col Column) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
