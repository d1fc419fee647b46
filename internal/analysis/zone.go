package analysis

import (
	"fmt"
	"math"
	"strings"
)

// Zone is a vibration severity zone. Zones are ordered A < B < C < D.
type Zone string

const (
	ZoneA Zone = "A"
	ZoneB Zone = "B"
	ZoneC Zone = "C"
	ZoneD Zone = "D"
)

// Zones lists every zone in ascending severity.
var Zones = []Zone{ZoneA, ZoneB, ZoneC, ZoneD}

// Severity returns the ordinal of the zone starting at 0 for A, or -1 for unknown values.
func (z Zone) Severity() int {
	switch z {
	case ZoneA:
		return 0
	case ZoneB:
		return 1
	case ZoneC:
		return 2
	case ZoneD:
		return 3
	default:
		return -1
	}
}

// AtLeast reports whether z is as severe as other or worse.
func (z Zone) AtLeast(other Zone) bool {
	return z.Severity() >= other.Severity()
}

// ParseZone accepts "A".."D" in any case.
func ParseZone(s string) (Zone, error) {
	z := Zone(strings.ToUpper(strings.TrimSpace(s)))
	if z.Severity() < 0 {
		return "", fmt.Errorf("unknown zone %q", s)
	}
	return z, nil
}

// Classification is the static payload attached to a zone.
type Classification struct {
	Zone           Zone   `json:"zone"`
	Label          string `json:"label"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
	Color          string `json:"color"`
}

var classifications = map[Zone]Classification{
	ZoneA: {
		Zone:           ZoneA,
		Label:          "ZONE A - NORMAL",
		Description:    "Vibration is within the normal range. Equipment is in good condition.",
		Recommendation: "Continue operation on schedule. Routine maintenance.",
		Color:          "green",
	},
	ZoneB: {
		Zone:           ZoneB,
		Label:          "ZONE B - ACCEPTABLE",
		Description:    "Vibration is elevated but acceptable for long-term operation.",
		Recommendation: "Increase monitoring. Run diagnostics at the next service. Schedule balancing.",
		Color:          "yellow",
	},
	ZoneC: {
		Zone:           ZoneC,
		Label:          "ZONE C - UNACCEPTABLE",
		Description:    "Vibration is unacceptable for continuous long-term operation.",
		Recommendation: "Urgent diagnostics. Limit running time. Schedule repair as soon as possible.",
		Color:          "orange",
	},
	ZoneD: {
		Zone:           ZoneD,
		Label:          "ZONE D - DANGEROUS",
		Description:    "Critical vibration level. Equipment damage is possible.",
		Recommendation: "STOP IMMEDIATELY. Emergency diagnostics. Do not operate until the cause is removed.",
		Color:          "red",
	},
}

// Info returns the payload for z. Unknown zones yield an empty Classification.
func (z Zone) Info() Classification {
	return classifications[z]
}

// Limits holds the inclusive upper bounds of zones A, B and C in mm/s.
type Limits struct {
	A float64 `json:"a"`
	B float64 `json:"b"`
	C float64 `json:"c"`
}

type powerBracket struct {
	maxPower float64
	limits   Limits
}

// brackets are scanned in order; the first bracket whose maxPower is >= power wins.
var brackets = []powerBracket{
	{maxPower: 15, limits: Limits{A: 2.3, B: 4.5, C: 7.1}},
	{maxPower: 75, limits: Limits{A: 2.8, B: 5.6, C: 9.0}},
	{maxPower: 300, limits: Limits{A: 3.5, B: 7.1, C: 11.2}},
	{maxPower: math.Inf(1), limits: Limits{A: 4.5, B: 9.0, C: 14.0}},
}

// LimitsFor selects the threshold triple for a rated power in kW.
func LimitsFor(power float64) Limits {
	for _, b := range brackets {
		if power <= b.maxPower {
			return b.limits
		}
	}
	return brackets[len(brackets)-1].limits
}

// ZoneFor places a vibration value against a threshold triple. Bounds are inclusive.
func (l Limits) ZoneFor(vibration float64) Zone {
	switch {
	case vibration <= l.A:
		return ZoneA
	case vibration <= l.B:
		return ZoneB
	case vibration <= l.C:
		return ZoneC
	default:
		return ZoneD
	}
}

// Classify maps a vibration velocity (mm/s) and rated power (kW) to a severity zone.
// It accepts any input: negative vibration lands in zone A.
func Classify(vibration, power float64) Classification {
	return LimitsFor(power).ZoneFor(vibration).Info()
}
