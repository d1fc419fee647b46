package ingest

import (
	"strconv"
	"strings"
)

// ParseNumber extracts a non-negative number from a free-text cell such as "30 кВт" or
// "2,8 мм/с". Leading text is skipped and a comma is read as a decimal point. Once digits
// have started, the number ends at a second separator or at any character that is not a
// digit; spaces between digit groups before the decimal separator are skipped, so
// "1 250,5" reads as 1250.5 and "2.8-3.1" as 2.8. Cells without digits yield 0.
func ParseNumber(cell string) float64 {
	var b strings.Builder
	b.Grow(len(cell))
	started, seenSep := false, false
	for _, r := range cell {
		switch {
		case r >= '0' && r <= '9':
			started = true
			b.WriteRune(r)
		case r == '.' || r == ',':
			if seenSep {
				return parseOrZero(b.String())
			}
			seenSep = true
			b.WriteByte('.')
		case started && !seenSep && isGroupSpace(r):
		case started:
			return parseOrZero(b.String())
		default:
			// a separator not followed by digits belongs to the leading text
			b.Reset()
			seenSep = false
		}
	}
	return parseOrZero(b.String())
}

func isGroupSpace(r rune) bool {
	return r == ' ' || r == '\u00a0' || r == '\u202f'
}

func parseOrZero(s string) float64 {
	s = strings.TrimSuffix(s, ".")
	if s == "" || s == "." {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
