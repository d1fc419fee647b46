package analysis

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Trend describes the direction of change across a reading sequence.
type Trend string

const (
	TrendStable  Trend = "stable"
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
)

// Trends lists every trend value.
var Trends = []Trend{TrendStable, TrendRising, TrendFalling}

// StableBandPct is the absolute change below which a sequence counts as stable.
const StableBandPct = 5.0

const (
	descInsufficient = "Insufficient data for trend analysis."
	descStable       = "Stable trend. Changes are within the normal range."
	descZeroBaseline = "Baseline average is zero; trend is undefined."
)

// TrendResult is the outcome of AnalyzeTrend. ChangePercent is always finite.
type TrendResult struct {
	Trend         Trend   `json:"trend"`
	ChangePercent float64 `json:"changePercent"`
	Description   string  `json:"description"`
}

// AnalyzeTrend compares the mean of the second half of values with the mean of the
// first half. For odd lengths the middle element belongs to the second half.
func AnalyzeTrend(values []float64) TrendResult {
	if len(values) < 2 {
		return TrendResult{Trend: TrendStable, Description: descInsufficient}
	}

	mid := len(values) / 2
	first := mean(values[:mid])
	second := mean(values[mid:])

	change := (second - first) / first * 100
	if first == 0 || math.IsNaN(change) || math.IsInf(change, 0) {
		return TrendResult{Trend: TrendStable, Description: descZeroBaseline}
	}

	switch {
	case math.Abs(change) < StableBandPct:
		return TrendResult{Trend: TrendStable, ChangePercent: change, Description: descStable}
	case change > 0:
		return TrendResult{
			Trend:         TrendRising,
			ChangePercent: change,
			Description:   fmt.Sprintf("Rising trend (+%s%%). Attention required.", FormatPercent(change)),
		}
	default:
		return TrendResult{
			Trend:         TrendFalling,
			ChangePercent: change,
			Description:   fmt.Sprintf("Falling trend (%s%%). Positive dynamics.", FormatPercent(change)),
		}
	}
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatValue renders a reading or power value with at most two decimals.
func FormatValue(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Sprint(v)
	}
	return decimal.NewFromFloat(v).Round(2).String()
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
