package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibromon/internal/alerting"
	"vibromon/internal/analysis"
	"vibromon/internal/ingest"
	"vibromon/internal/observability"
)

const healthyCSV = `id,name,motor,power,time,value
NA-101,Pump unit 1,AIR 180M4,30,00:00,2.1
NA-101,,,,04:00,2.2
`

const degradedCSV = `id,name,motor,power,time,value
NA-101,Pump unit 1,AIR 180M4,30,00:00,2.1
NA-101,,,,04:00,2.2
NA-104,Pump unit 4,AIR 180M4,30,00:00,4.0
NA-104,,,,04:00,9.5
`

type captureNotifier struct {
	notes []alerting.Notification
	err   error
}

func (c *captureNotifier) Notify(_ context.Context, note alerting.Notification) error {
	c.notes = append(c.notes, note)
	return c.err
}

type fixture struct {
	path     string
	clock    *clockwork.FakeClock
	notifier *captureNotifier
	metrics  *observability.Metrics
	svc      *Service
}

func newFixture(t *testing.T, content string) *fixture {
	t.Helper()
	f := &fixture{
		path:     filepath.Join(t.TempDir(), "readings.csv"),
		clock:    clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)),
		notifier: &captureNotifier{},
	}
	f.metrics, _ = observability.NewMetricsForTesting()
	f.write(t, content)

	f.svc = New(ingest.NewLoader(ingest.Options{}, zerolog.Nop()), Options{
		Path:          f.path,
		AlertsEnabled: true,
		MinZone:       analysis.ZoneC,
		Cooldown:      time.Hour,
		Channels:      []string{"telegram"},
		Notifier:      f.notifier,
		Metrics:       f.metrics,
		Clock:         f.clock,
	}, zerolog.Nop())
	return f
}

// write replaces the source and moves its mtime forward so change detection never
// depends on filesystem timestamp granularity.
func (f *fixture) write(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.path, []byte(content), 0o644))
	stamp := f.clock.Now()
	require.NoError(t, os.Chtimes(f.path, stamp, stamp))
}

func (f *fixture) tick(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Tick(context.Background(), f.clock.Now()))
}

func TestSnapshotCachesUntilSourceChanges(t *testing.T) {
	f := newFixture(t, healthyCSV)
	ctx := context.Background()

	first, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, first.Items, 1)
	assert.Equal(t, analysis.ZoneA, first.Items[0].Zone)

	again, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SourceLoads.WithLabelValues("ok")))

	f.clock.Advance(time.Minute)
	f.write(t, degradedCSV)

	next, err := f.svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, next.Items, 2)
	assert.Equal(t, 1, next.Summary.Attention)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Equipment.WithLabelValues("D")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SourceLoads.WithLabelValues("ok")))

	item, ok := next.Find("NA-104")
	require.True(t, ok)
	assert.Equal(t, analysis.TrendRising, item.Trend)
	_, ok = next.Find("missing")
	assert.False(t, ok)
}

func TestTickAlertsWithCooldown(t *testing.T) {
	f := newFixture(t, degradedCSV)

	f.tick(t)
	require.Len(t, f.notifier.notes, 1)
	note := f.notifier.notes[0]
	require.Len(t, note.Items, 1)
	assert.Equal(t, "NA-104", note.Items[0].ID)
	assert.Equal(t, analysis.ZoneC, note.MinZone)
	assert.Equal(t, []string{"telegram"}, note.Channels)

	f.clock.Advance(30 * time.Minute)
	f.tick(t)
	assert.Len(t, f.notifier.notes, 1, "unchanged source within cooldown")

	f.clock.Advance(10 * time.Minute)
	f.write(t, degradedCSV+"NA-104,,,,08:00,9.6\n")
	f.tick(t)
	assert.Len(t, f.notifier.notes, 1, "changed source within cooldown")

	f.clock.Advance(time.Hour)
	f.tick(t)
	require.Len(t, f.notifier.notes, 2, "cooldown expired on an unchanged source")
	assert.Equal(t, 9.6, f.notifier.notes[1].Items[0].Latest())

	f.clock.Advance(time.Minute)
	f.tick(t)
	assert.Len(t, f.notifier.notes, 2)
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.Alerts.WithLabelValues("sent")))
	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.SourceLoads.WithLabelValues("ok")))
}

func TestRecoveredUnitLosesCooldown(t *testing.T) {
	f := newFixture(t, degradedCSV)
	f.tick(t)
	require.Len(t, f.notifier.notes, 1)

	f.clock.Advance(time.Minute)
	f.write(t, degradedCSV+"NA-104,,,,08:00,1.0\n")
	f.tick(t)
	assert.Len(t, f.notifier.notes, 1, "unit back in zone A")

	f.clock.Advance(time.Minute)
	f.write(t, degradedCSV+"NA-104,,,,08:00,1.0\nNA-104,,,,12:00,9.9\n")
	f.tick(t)
	assert.Len(t, f.notifier.notes, 2, "re-escalation alerts without waiting for cooldown")
}

func TestFailedDispatchIsRetried(t *testing.T) {
	tests := []struct {
		name  string
		after time.Duration
	}{
		{"next tick", time.Minute},
		{"past cooldown", 2 * time.Hour},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, degradedCSV)
			f.notifier.err = errors.New("telegram down")

			f.tick(t)
			require.Len(t, f.notifier.notes, 1)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Alerts.WithLabelValues("failed")))

			f.notifier.err = nil
			f.clock.Advance(tt.after)
			f.tick(t)
			require.Len(t, f.notifier.notes, 2, "source untouched between ticks")
			assert.Equal(t, "NA-104", f.notifier.notes[1].Items[0].ID)
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Alerts.WithLabelValues("sent")))
			assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SourceLoads.WithLabelValues("ok")))
		})
	}
}

func TestTickMissingSource(t *testing.T) {
	f := newFixture(t, healthyCSV)
	require.NoError(t, os.Remove(f.path))

	err := f.svc.Tick(context.Background(), f.clock.Now())
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SourceLoads.WithLabelValues("error")))
}

func TestAlertsDisabled(t *testing.T) {
	f := newFixture(t, degradedCSV)
	f.svc.opts.AlertsEnabled = false
	f.tick(t)
	assert.Empty(t, f.notifier.notes)
}
