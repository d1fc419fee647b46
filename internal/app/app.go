package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"vibromon/internal/alerting"
	"vibromon/internal/analysis"
	"vibromon/internal/config"
	"vibromon/internal/ingest"
	"vibromon/internal/observability"
	"vibromon/internal/scheduler"
	"vibromon/internal/service"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
	Clock  clockwork.Clock
	Out    io.Writer
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{
		Config: cfg,
		Logger: logger.With().Str("component", "app").Logger(),
		Clock:  clockwork.NewRealClock(),
		Out:    os.Stdout,
	}
}

func (a *App) newLoader() *ingest.Loader {
	return ingest.NewLoader(ingest.Options{Sheet: a.Config.Source.Sheet}, a.Logger)
}

// load reads and classifies the source named by the flag or configuration.
func (a *App) load(ctx context.Context, file string) (string, []analysis.Classified, error) {
	path, err := a.Config.ResolveSource(file)
	if err != nil {
		return "", nil, err
	}

	result, err := a.newLoader().Load(ctx, path)
	if err != nil {
		return "", nil, err
	}
	if result.Stats.Skipped > 0 {
		a.Logger.Warn().Int("skipped", result.Stats.Skipped).Str("path", path).Msg("rows without id were skipped")
	}
	return path, analysis.Process(result.Records), nil
}

func (a *App) newNotifier() (alerting.Notifier, error) {
	tg := a.Config.Alerting.Telegram
	return alerting.NewFanout(a.Config.Alerting.Channels, alerting.TelegramSettings{
		BotToken: tg.BotToken,
		ChatID:   tg.ChatID,
		APIBase:  tg.APIBase,
		Timeout:  tg.Timeout,
	}, a.Logger)
}

func (a *App) newService(path string, metrics *observability.Metrics) (*service.Service, error) {
	notifier, err := a.newNotifier()
	if err != nil {
		return nil, fmt.Errorf("alerting.channels: %w", err)
	}
	return service.New(a.newLoader(), service.Options{
		Path:          path,
		AlertsEnabled: a.Config.Alerting.Enabled,
		MinZone:       a.Config.MinZone(),
		Cooldown:      a.Config.Alerting.Cooldown,
		Channels:      a.Config.Alerting.Channels,
		Notifier:      notifier,
		Metrics:       metrics,
		Clock:         a.Clock,
	}, a.Logger), nil
}

// Watch re-reads the source on every scheduler interval and alerts on risky units.
func (a *App) Watch(ctx context.Context, opts WatchOptions) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path, err := a.Config.ResolveSource(opts.File)
	if err != nil {
		return err
	}
	if !a.Config.Alerting.Enabled {
		a.Logger.Warn().Msg("alerting.enabled is false; watch will only log reloads")
	}

	sched := scheduler.New(scheduler.Options{
		Interval:       a.Config.Scheduler.Interval,
		AlignToStart:   a.Config.Scheduler.AlignToBucket,
		StartupDelay:   a.Config.Scheduler.StartupDelay,
		RunImmediately: true,
		Clock:          a.Clock,
	}, a.Logger)

	svc, err := a.newService(path, nil)
	if err != nil {
		return err
	}

	a.Logger.Info().Str("path", path).Dur("interval", a.Config.Scheduler.Interval).Msg("starting watch")
	err = svc.Run(ctx, sched)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("watch terminated with error")
		return err
	}

	a.Logger.Info().Msg("watch stopped")
	return nil
}

// ShowOptions configure the show command.
type ShowOptions struct {
	File    string
	MinZone string
}

// InspectOptions configure the inspect command.
type InspectOptions struct {
	File string
	ID   string
}

// ClassifyOptions configure the classify command.
type ClassifyOptions struct {
	Vibration float64
	Power     float64
	JSON      bool
}

// ExportOptions hold parameters for exporting classified equipment.
type ExportOptions struct {
	File    string
	CSVPath string
	PNGDir  string
	ID      string
}

// ReportOptions configure the report command.
type ReportOptions struct {
	File    string
	OutPath string
}

// WatchOptions configure watch mode.
type WatchOptions struct {
	File string
}

// ServeOptions configure the dashboard API.
type ServeOptions struct {
	File string
	Addr string
}
