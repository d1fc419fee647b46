package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{
			ID: "NA-101", Name: "Pump unit 1", Motor: "AIR 180M4", Power: 30,
			Measurements: []Measurement{{"00:00", 2.1}, {"04:00", 2.3}, {"08:00", 2.8}, {"12:00", 3.1}, {"16:00", 2.9}, {"20:00", 2.4}},
		},
		{
			ID: "NA-102", Name: "Pump unit 2", Motor: "AIR 200L6", Power: 45,
			Measurements: []Measurement{{"00:00", 9.5}, {"04:00", 3.8}},
		},
		{
			ID: "NA-103", Name: "Pump unit 3", Motor: "AIR 160S4", Power: 15,
		},
	}
}

func TestProcessUsesLatestMeasurement(t *testing.T) {
	out := Process(sampleRecords())
	require.Len(t, out, 3)

	// 2.4 mm/s at 30 kW is inside zone A even though 3.1 peaked above the A limit.
	assert.Equal(t, ZoneA, out[0].Zone)
	assert.Equal(t, 2.4, out[0].Latest())
	assert.Equal(t, "green", out[0].ZoneColor)

	// Latest 3.8 at 45 kW is B; the earlier 9.5 would have been D.
	assert.Equal(t, ZoneB, out[1].Zone)
	assert.Equal(t, TrendFalling, out[1].Trend)

	// No readings: latest is 0 and the trend is stable.
	assert.Equal(t, ZoneA, out[2].Zone)
	assert.Equal(t, TrendStable, out[2].Trend)
	assert.Zero(t, out[2].TrendChangePercent)
}

func TestProcessPreservesOrderAndFields(t *testing.T) {
	in := sampleRecords()
	out := Process(in)

	for i := range in {
		assert.Equal(t, in[i].ID, out[i].ID)
		assert.Equal(t, in[i].Name, out[i].Name)
		assert.Equal(t, in[i].Motor, out[i].Motor)
		assert.Equal(t, in[i].Power, out[i].Power)
		assert.Equal(t, in[i].Measurements, out[i].Measurements)
	}
}

func TestProcessDoesNotMutateInput(t *testing.T) {
	in := sampleRecords()
	out := Process(in)

	out[0].Measurements[0].Value = 99
	assert.Equal(t, 2.1, in[0].Measurements[0].Value)
}

func TestProcessIsIdempotent(t *testing.T) {
	in := sampleRecords()
	assert.Equal(t, Process(in), Process(in))
}

func TestProcessEmpty(t *testing.T) {
	assert.Empty(t, Process(nil))
}

func TestRecordAppend(t *testing.T) {
	base := Record{ID: "M-1", Power: 10, Measurements: []Measurement{{"t1", 1}}}
	next := base.Append(Measurement{"t2", 8})

	require.Len(t, base.Measurements, 1)
	require.Len(t, next.Measurements, 2)
	assert.Equal(t, 8.0, next.Latest())
	assert.Equal(t, ZoneD, ProcessOne(next).Zone)
	assert.Equal(t, ZoneA, ProcessOne(base).Zone)
}

func TestSummarize(t *testing.T) {
	items := Process([]Record{
		{ID: "a", Power: 10, Measurements: []Measurement{{"", 1}}},
		{ID: "b", Power: 10, Measurements: []Measurement{{"", 5}}},
		{ID: "c", Power: 10, Measurements: []Measurement{{"", 1}, {"", 8}}},
		{ID: "d", Power: 10, Measurements: []Measurement{{"", 2}}},
	})

	s := Summarize(items)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Normal)
	assert.Equal(t, 2, s.Attention)
	assert.Equal(t, map[Zone]int{ZoneA: 2, ZoneB: 0, ZoneC: 1, ZoneD: 1}, s.ByZone)
	assert.Equal(t, []string{"a", "d"}, s.IDsByZone[ZoneA])
	assert.Equal(t, []string{}, s.IDsByZone[ZoneB])
	assert.Equal(t, 1, s.ByTrend[TrendRising])
	assert.Equal(t, 3, s.ByTrend[TrendStable])

	filtered := FilterMinZone(items, ZoneC)
	require.Len(t, filtered, 2)
	assert.Equal(t, "b", filtered[0].ID)
	assert.Equal(t, "c", filtered[1].ID)
}
