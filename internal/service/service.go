package service

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"vibromon/internal/alerting"
	"vibromon/internal/analysis"
	"vibromon/internal/ingest"
	"vibromon/internal/observability"
	"vibromon/internal/scheduler"
)

// Snapshot is the classified state of the source at one load.
type Snapshot struct {
	Source   string                `json:"source"`
	LoadedAt time.Time             `json:"loadedAt"`
	Stats    ingest.Stats          `json:"-"`
	Items    []analysis.Classified `json:"items"`
	Summary  analysis.Summary      `json:"summary"`
}

// Find returns the unit with the given ID.
func (s *Snapshot) Find(id string) (analysis.Classified, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return analysis.Classified{}, false
}

// Options configure the monitoring service.
type Options struct {
	Path          string
	AlertsEnabled bool
	MinZone       analysis.Zone
	Cooldown      time.Duration
	Channels      []string
	Notifier      alerting.Notifier
	Metrics       *observability.Metrics
	Clock         clockwork.Clock
}

// Service keeps the latest classification of a source file and alerts on risky units.
type Service struct {
	opts   Options
	loader *ingest.Loader
	clock  clockwork.Clock
	logger zerolog.Logger

	mu        sync.Mutex
	current   *Snapshot
	lastAlert map[string]time.Time
}

// New constructs the monitoring service.
func New(loader *ingest.Loader, opts Options, logger zerolog.Logger) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.MinZone == "" {
		opts.MinZone = analysis.ZoneC
	}
	return &Service{
		opts:      opts,
		loader:    loader,
		clock:     clock,
		logger:    logger.With().Str("component", "service").Str("source", opts.Path).Logger(),
		lastAlert: make(map[string]time.Time),
	}
}

// Run reloads the source on every scheduler tick until ctx is cancelled.
func (s *Service) Run(ctx context.Context, sched *scheduler.Scheduler) error {
	if sched == nil {
		return fmt.Errorf("scheduler not configured")
	}
	return sched.Run(ctx, s.Tick)
}

// Snapshot returns the current classification, re-reading the source if it changed.
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	snap, _, err := s.refresh(ctx)
	return snap, err
}

// Tick re-reads the source when it changed and evaluates alerts on every call.
// The per-unit cooldown decides what is sent, so a unit whose dispatch failed
// or whose cooldown expired is alerted again without a file change.
func (s *Service) Tick(ctx context.Context, at time.Time) error {
	snap, changed, err := s.refresh(ctx)
	if err != nil {
		return err
	}
	if changed {
		s.logger.Info().
			Time("at", at).
			Int("units", snap.Summary.Total).
			Int("attention", snap.Summary.Attention).
			Msg("source reprocessed")
	} else {
		s.logger.Debug().Time("at", at).Msg("source unchanged")
	}

	s.alert(ctx, snap)
	return nil
}

func (s *Service) refresh(ctx context.Context) (*Snapshot, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.opts.Path)
	if err != nil {
		s.countLoad("error")
		return nil, false, fmt.Errorf("stat source: %w", err)
	}
	if s.current != nil &&
		info.ModTime().Equal(s.current.Stats.ModifiedAt) &&
		info.Size() == s.current.Stats.Size {
		return s.current, false, nil
	}

	started := s.clock.Now()
	result, err := s.loader.Load(ctx, s.opts.Path)
	if err != nil {
		s.countLoad("error")
		return nil, false, err
	}

	items := analysis.Process(result.Records)
	snap := &Snapshot{
		Source:   s.opts.Path,
		LoadedAt: s.clock.Now().UTC(),
		Stats:    result.Stats,
		Items:    items,
		Summary:  analysis.Summarize(items),
	}
	s.current = snap

	s.countLoad("ok")
	if m := s.opts.Metrics; m != nil {
		m.SourceLoadDuration.Observe(s.clock.Now().Sub(started).Seconds())
		m.LastLoadTimestamp.Set(float64(snap.LoadedAt.Unix()))
		m.ObserveSummary(snap.Summary)
	}
	return snap, true, nil
}

func (s *Service) alert(ctx context.Context, snap *Snapshot) {
	if !s.opts.AlertsEnabled || s.opts.Notifier == nil {
		return
	}

	now := s.clock.Now().UTC()
	due := s.dueForAlert(snap.Items, now)
	if len(due) == 0 {
		return
	}

	note := alerting.Notification{
		Source:      snap.Source,
		GeneratedAt: now,
		MinZone:     s.opts.MinZone,
		Items:       due,
		Channels:    s.opts.Channels,
	}
	if err := s.opts.Notifier.Notify(ctx, note); err != nil {
		s.countAlert("failed")
		s.logger.Error().Err(err).Int("units", len(due)).Msg("failed to dispatch alert")
		return
	}

	s.countAlert("sent")
	s.mu.Lock()
	for _, item := range due {
		s.lastAlert[item.ID] = now
	}
	s.mu.Unlock()
}

// dueForAlert picks units at or above the alert zone whose cooldown expired.
// Units that dropped below the alert zone lose their cooldown.
func (s *Service) dueForAlert(items []analysis.Classified, now time.Time) []analysis.Classified {
	s.mu.Lock()
	defer s.mu.Unlock()

	due := make([]analysis.Classified, 0)
	for _, item := range items {
		if !item.Zone.AtLeast(s.opts.MinZone) {
			delete(s.lastAlert, item.ID)
			continue
		}
		if last, ok := s.lastAlert[item.ID]; ok && now.Sub(last) < s.opts.Cooldown {
			continue
		}
		due = append(due, item)
	}
	return due
}

func (s *Service) countLoad(result string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.SourceLoads.WithLabelValues(result).Inc()
	}
}

func (s *Service) countAlert(result string) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Alerts.WithLabelValues(result).Inc()
	}
}
