package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"vibromon/internal/analysis"
)

// Notification carries the units whose zone crossed the alert threshold.
type Notification struct {
	Source      string
	GeneratedAt time.Time
	MinZone     analysis.Zone
	Items       []analysis.Classified
	Channels    []string
}

// Notifier delivers a notification to one channel.
type Notifier interface {
	Notify(ctx context.Context, notification Notification) error
}

// TelegramNotifier posts messages through the Telegram Bot API.
type TelegramNotifier struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
	logger   zerolog.Logger
}

// NewTelegramNotifier constructs a Telegram notifier.
func NewTelegramNotifier(botToken, chatID, baseURL string, timeout time.Duration, logger zerolog.Logger) *TelegramNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if baseURL == "" {
		baseURL = "https://api.telegram.org"
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: timeout},
		logger:   logger.With().Str("component", "alert_telegram").Logger(),
	}
}

// Notify calls sendMessage with the rendered text.
func (n *TelegramNotifier) Notify(ctx context.Context, note Notification) error {
	payload := map[string]string{
		"chat_id": n.chatID,
		"text":    RenderMessage(note),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	var result struct {
		OK bool `json:"ok"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil {
		if !result.OK {
			return fmt.Errorf("telegram returned ok=false")
		}
	}

	n.logger.Info().
		Int("units", len(note.Items)).
		Str("min_zone", string(note.MinZone)).
		Msg("alert sent (telegram)")
	return nil
}

// LogNotifier writes alerts to the application log.
type LogNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs a log-only notifier.
func NewLogNotifier(logger zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger.With().Str("component", "alert_log").Logger()}
}

// Notify logs one warning per unit.
func (n *LogNotifier) Notify(_ context.Context, note Notification) error {
	for _, item := range note.Items {
		n.logger.Warn().
			Str("equipment", item.ID).
			Str("zone", string(item.Zone)).
			Float64("latest_mm_s", item.Latest()).
			Str("trend", string(item.Trend)).
			Msg(item.ZoneRecommendation)
	}
	return nil
}

// Fanout delivers to every notifier and joins their errors.
type Fanout []Notifier

// Notify implements Notifier.
func (f Fanout) Notify(ctx context.Context, note Notification) error {
	var errs []error
	for _, n := range f {
		if err := n.Notify(ctx, note); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RenderMessage formats a notification as plain text.
func RenderMessage(note Notification) string {
	builder := strings.Builder{}
	builder.WriteString("[Vibration Alert]\n")
	if note.Source != "" {
		builder.WriteString(fmt.Sprintf("Source: %s\n", note.Source))
	}
	builder.WriteString(fmt.Sprintf("Generated: %s UTC\n", note.GeneratedAt.UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf("Units at zone %s or worse: %d\n", note.MinZone, len(note.Items)))
	for _, item := range note.Items {
		builder.WriteString(fmt.Sprintf("\n%s %s (%s, %s kW)\n", item.ID, item.Name, item.Motor, analysis.FormatValue(item.Power)))
		builder.WriteString(fmt.Sprintf("  %s: %s mm/s\n", item.ZoneLabel, analysis.FormatValue(item.Latest())))
		builder.WriteString(fmt.Sprintf("  Trend: %s (%s%%)\n", item.Trend, analysis.FormatPercent(item.TrendChangePercent)))
		builder.WriteString(fmt.Sprintf("  %s\n", item.ZoneRecommendation))
	}
	if len(note.Channels) > 0 {
		builder.WriteString(fmt.Sprintf("\nChannels: %s\n", strings.Join(note.Channels, ",")))
	}
	return builder.String()
}

var (
	_ Notifier = (*TelegramNotifier)(nil)
	_ Notifier = (*LogNotifier)(nil)
	_ Notifier = Fanout(nil)
)
