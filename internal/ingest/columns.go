package ingest

import (
	"fmt"
	"strings"
)

// Column identifies a canonical input column.
type Column string

const (
	ColumnID    Column = "id"
	ColumnName  Column = "name"
	ColumnMotor Column = "motor"
	ColumnPower Column = "power"
	ColumnTime  Column = "time"
	ColumnValue Column = "value"
)

// aliases maps normalised header text to canonical columns. Headers are lower-cased and
// stripped of spaces, underscores, dashes and dots before lookup.
var aliases = map[Column][]string{
	ColumnID:    {"id", "equipmentid", "equipment", "unit", "unitid", "tag", "агрегат", "оборудование", "код", "номер", "позиция"},
	ColumnName:  {"name", "title", "description", "наименование", "название", "имя"},
	ColumnMotor: {"motor", "motortype", "engine", "двигатель", "электродвигатель", "эд", "типдвигателя"},
	ColumnPower: {"power", "kw", "powerkw", "ratedpower", "мощность", "мощностьквт", "квт"},
	ColumnTime:  {"time", "date", "datetime", "timestamp", "время", "дата", "датаизмерения"},
	ColumnValue: {"value", "vibration", "mm/s", "velocity", "rms", "вибрация", "значение", "виброскорость", "мм/с"},
}

// ColumnError reports required columns that could not be found in the header row.
type ColumnError struct {
	Missing []Column
	Header  []string
}

func (e *ColumnError) Error() string {
	names := make([]string, len(e.Missing))
	for i, c := range e.Missing {
		names[i] = string(c)
	}
	return fmt.Sprintf("missing required columns %s in header %q", strings.Join(names, ","), e.Header)
}

var required = []Column{ColumnID, ColumnValue}

// mapHeader resolves each canonical column to a header index. Exact alias matches win
// over substring matches; the first matching header is used.
func mapHeader(header []string) (map[Column]int, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = normalizeHeader(h)
	}

	index := make(map[Column]int, len(aliases))
	taken := make(map[int]bool, len(header))

	for _, col := range columnOrder {
		if i, ok := findExact(normalized, aliases[col], taken); ok {
			index[col] = i
			taken[i] = true
		}
	}
	for _, col := range columnOrder {
		if _, ok := index[col]; ok {
			continue
		}
		if i, ok := findContains(normalized, aliases[col], taken); ok {
			index[col] = i
			taken[i] = true
		}
	}

	var missing []Column
	for _, col := range required {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &ColumnError{Missing: missing, Header: header}
	}
	return index, nil
}

var columnOrder = []Column{ColumnID, ColumnName, ColumnMotor, ColumnPower, ColumnTime, ColumnValue}

func findExact(header []string, names []string, taken map[int]bool) (int, bool) {
	for i, h := range header {
		if taken[i] || h == "" {
			continue
		}
		for _, n := range names {
			if h == n {
				return i, true
			}
		}
	}
	return 0, false
}

func findContains(header []string, names []string, taken map[int]bool) (int, bool) {
	for i, h := range header {
		if taken[i] || h == "" {
			continue
		}
		for _, n := range names {
			// short aliases like "id" or "эд" would match too much as substrings
			if len([]rune(n)) < 3 {
				continue
			}
			if strings.Contains(h, n) {
				return i, true
			}
		}
	}
	return 0, false
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	replacer := strings.NewReplacer(" ", "", "_", "", "-", "", ".", "", ",", "", "(", "", ")", "")
	return replacer.Replace(h)
}
