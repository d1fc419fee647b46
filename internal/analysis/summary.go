package analysis

// Summary aggregates classified equipment by zone and trend.
type Summary struct {
	Total     int               `json:"total"`
	Normal    int               `json:"normal"`
	Attention int               `json:"attention"`
	ByZone    map[Zone]int      `json:"byZone"`
	ByTrend   map[Trend]int     `json:"byTrend"`
	IDsByZone map[Zone][]string `json:"idsByZone"`
}

// Summarize groups items by zone and trend. Zone C and D units count as needing attention.
func Summarize(items []Classified) Summary {
	s := Summary{
		Total:     len(items),
		ByZone:    make(map[Zone]int, len(Zones)),
		ByTrend:   make(map[Trend]int, len(Trends)),
		IDsByZone: make(map[Zone][]string, len(Zones)),
	}
	for _, z := range Zones {
		s.ByZone[z] = 0
		s.IDsByZone[z] = []string{}
	}
	for _, t := range Trends {
		s.ByTrend[t] = 0
	}

	for _, item := range items {
		s.ByZone[item.Zone]++
		s.ByTrend[item.Trend]++
		s.IDsByZone[item.Zone] = append(s.IDsByZone[item.Zone], item.ID)
		if item.Zone == ZoneA {
			s.Normal++
		}
		if item.Zone.AtLeast(ZoneC) {
			s.Attention++
		}
	}
	return s
}

// FilterMinZone keeps items whose zone is at least floor, in input order.
func FilterMinZone(items []Classified, floor Zone) []Classified {
	out := make([]Classified, 0, len(items))
	for _, item := range items {
		if item.Zone.AtLeast(floor) {
			out = append(out, item)
		}
	}
	return out
}
