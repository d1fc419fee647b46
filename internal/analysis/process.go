package analysis

// Classified is a Record with its zone and trend attached.
type Classified struct {
	Record

	Zone               Zone    `json:"zone"`
	ZoneLabel          string  `json:"zoneLabel"`
	ZoneDescription    string  `json:"zoneDescription"`
	ZoneRecommendation string  `json:"zoneRecommendation"`
	ZoneColor          string  `json:"zoneColor"`
	Trend              Trend   `json:"trend"`
	TrendChangePercent float64 `json:"trendChangePercent"`
	TrendDescription   string  `json:"trendDescription"`
}

// Latest is the reading the zone was computed from.
func (c Classified) Latest() float64 {
	return c.Record.Latest()
}

// Limits returns the thresholds that applied to this unit.
func (c Classified) Limits() Limits {
	return LimitsFor(c.Power)
}

// ProcessOne classifies a single record. The input is not modified.
func ProcessOne(r Record) Classified {
	values := r.Values()

	var latest float64
	if len(values) > 0 {
		latest = values[len(values)-1]
	}

	zone := Classify(latest, r.Power)
	trend := AnalyzeTrend(values)

	out := r
	out.Measurements = make([]Measurement, len(r.Measurements))
	copy(out.Measurements, r.Measurements)

	return Classified{
		Record:             out,
		Zone:               zone.Zone,
		ZoneLabel:          zone.Label,
		ZoneDescription:    zone.Description,
		ZoneRecommendation: zone.Recommendation,
		ZoneColor:          zone.Color,
		Trend:              trend.Trend,
		TrendChangePercent: trend.ChangePercent,
		TrendDescription:   trend.Description,
	}
}

// Process classifies every record, preserving input order.
func Process(records []Record) []Classified {
	out := make([]Classified, len(records))
	for i, r := range records {
		out[i] = ProcessOne(r)
	}
	return out
}
