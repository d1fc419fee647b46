package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"vibromon/internal/analysis"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestLoader() *Loader {
	return NewLoader(Options{}, zerolog.Nop())
}

func TestLoadCSVGroupsRowsByID(t *testing.T) {
	path := writeFile(t, "data.csv", `id,name,motor,power,time,value
NA-101,Pump unit 1,AIR 180M4,30 kW,00:00,2.1
NA-102,Pump unit 2,AIR 200L6,45 kW,00:00,3.0
NA-101,,,,04:00,2.3
NA-102,,,,04:00,3.8
NA-101,,,,08:00,2.8
`)

	res, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Records, 2)
	first := res.Records[0]
	assert.Equal(t, "NA-101", first.ID)
	assert.Equal(t, "Pump unit 1", first.Name)
	assert.Equal(t, "AIR 180M4", first.Motor)
	assert.Equal(t, 30.0, first.Power)
	assert.Equal(t, []analysis.Measurement{{Time: "00:00", Value: 2.1}, {Time: "04:00", Value: 2.3}, {Time: "08:00", Value: 2.8}}, first.Measurements)

	assert.Equal(t, "NA-102", res.Records[1].ID)
	assert.Equal(t, 3.8, res.Records[1].Latest())

	assert.Equal(t, 5, res.Stats.Rows)
	assert.Equal(t, 0, res.Stats.Skipped)
	assert.Equal(t, 2, res.Stats.Equipment)
	assert.False(t, res.Stats.ModifiedAt.IsZero())
}

func TestLoadCSVRussianHeadersAndSemicolons(t *testing.T) {
	path := writeFile(t, "ru.csv", "\xef\xbb\xbfАгрегат;Наименование;Электродвигатель;Мощность, кВт;Дата;Вибрация, мм/с\n"+
		"НА-1;Насосный агрегат №1;АИР 180M4;30 кВт;01.02.2024;\"2,8 мм/с\"\n"+
		"НА-1;;;;02.02.2024;3,1\n")

	res, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "НА-1", rec.ID)
	assert.Equal(t, "Насосный агрегат №1", rec.Name)
	assert.Equal(t, "АИР 180M4", rec.Motor)
	assert.Equal(t, 30.0, rec.Power)
	require.Len(t, rec.Measurements, 2)
	assert.Equal(t, "01.02.2024", rec.Measurements[0].Time)
	assert.Equal(t, 2.8, rec.Measurements[0].Value)
	assert.Equal(t, 3.1, rec.Measurements[1].Value)
}

func TestLoadSkipsRowsWithoutID(t *testing.T) {
	path := writeFile(t, "gaps.csv", "equipment,vibration\n,1.0\nM-1,2.0\n\n,,\nM-1,\n")

	res, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)

	require.Len(t, res.Records, 1)
	assert.Len(t, res.Records[0].Measurements, 1)
	assert.Equal(t, 3, res.Stats.Rows)
	assert.Equal(t, 1, res.Stats.Skipped)
}

func TestLoadMissingColumns(t *testing.T) {
	path := writeFile(t, "bad.csv", "name,power\nPump,30\n")

	_, err := newTestLoader().Load(context.Background(), path)
	require.Error(t, err)

	var colErr *ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, []Column{ColumnID, ColumnValue}, colErr.Missing)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "data.json", "{}")
		_, err := newTestLoader().Load(context.Background(), path)
		require.ErrorIs(t, err, ErrUnsupportedFormat)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := newTestLoader().Load(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "stat source")
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "\n\n")
		_, err := newTestLoader().Load(context.Background(), path)
		require.ErrorIs(t, err, ErrEmptySheet)
	})

	t.Run("cancelled context", func(t *testing.T) {
		path := writeFile(t, "data.csv", "id,value\nA,1\n")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestLoader().Load(ctx, path)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"ID", "Name", "Motor", "Power (kW)", "Timestamp", "Vibration mm/s"},
		{"P-7", "Feed pump", "AIR 250S4", "90", "2024-03-01", "3.2"},
		{"P-7", "", "", "", "2024-03-02", "7.4"},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	res, err := newTestLoader().Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)

	rec := res.Records[0]
	assert.Equal(t, "P-7", rec.ID)
	assert.Equal(t, 90.0, rec.Power)
	assert.Equal(t, 7.4, rec.Latest())
	assert.Equal(t, analysis.ZoneC, analysis.ProcessOne(rec).Zone)
}

func TestLoadXLSXNamedSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	_, err := f.NewSheet("Readings")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Readings", "A1", &[]any{"id", "value"}))
	require.NoError(t, f.SetSheetRow("Readings", "A2", &[]any{"M-2", "1.5"}))

	path := filepath.Join(t.TempDir(), "named.xlsx")
	require.NoError(t, f.SaveAs(path))

	loader := NewLoader(Options{Sheet: "Readings"}, zerolog.Nop())
	res, err := loader.Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "M-2", res.Records[0].ID)

	_, err = NewLoader(Options{Sheet: "Missing"}, zerolog.Nop()).Load(context.Background(), path)
	require.Error(t, err)
}
