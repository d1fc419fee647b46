package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name     string
		cell     string
		expected float64
	}{
		{"plain integer", "30", 30},
		{"unit suffix", "30 кВт", 30},
		{"comma decimal", "2,8 мм/с", 2.8},
		{"dot decimal", "4.5mm/s", 4.5},
		{"leading text", "approx 7.1", 7.1},
		{"thousands space", "1 250,5", 1250.5},
		{"second separator stops", "1.2.3", 1.2},
		{"minus is dropped", "-3.5", 3.5},
		{"dash range keeps first bound", "2.8-3.1", 2.8},
		{"spaced range keeps first bound", "2,8 - 3,1", 2.8},
		{"slash stops", "4.5/5", 4.5},
		{"no-break thousands space", "1\u00a0250", 1250},
		{"leading separator", ".5", 0.5},
		{"abbreviation before number", "approx. 7.1", 7.1},
		{"trailing separator", "12.", 12},
		{"empty", "", 0},
		{"no digits", "n/a", 0},
		{"lone separator", ",", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseNumber(tt.cell))
		})
	}
}

func TestMapHeader(t *testing.T) {
	t.Run("exact aliases", func(t *testing.T) {
		idx, err := mapHeader([]string{"Value", "Time", "ID", "kW"})
		require.NoError(t, err)
		assert.Equal(t, 2, idx[ColumnID])
		assert.Equal(t, 0, idx[ColumnValue])
		assert.Equal(t, 1, idx[ColumnTime])
		assert.Equal(t, 3, idx[ColumnPower])
	})

	t.Run("substring fallback", func(t *testing.T) {
		idx, err := mapHeader([]string{"Equipment tag", "Measured vibration (RMS)"})
		require.NoError(t, err)
		assert.Equal(t, 0, idx[ColumnID])
		assert.Equal(t, 1, idx[ColumnValue])
	})

	t.Run("missing value column", func(t *testing.T) {
		_, err := mapHeader([]string{"id", "name"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "value")
	})
}

func TestDetectDelimiter(t *testing.T) {
	assert.Equal(t, ',', detectDelimiter([]byte("a,b,c\n1,2,3")))
	assert.Equal(t, ';', detectDelimiter([]byte("a;b;c\n")))
	assert.Equal(t, '\t', detectDelimiter([]byte("a\tb")))
}
