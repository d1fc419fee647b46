package alerting

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Channel names accepted in alerting.channels.
const (
	ChannelLog      = "log"
	ChannelTelegram = "telegram"
)

// Channels lists every supported channel.
var Channels = []string{ChannelLog, ChannelTelegram}

// NormalizeChannel lower-cases and trims a configured channel name.
func NormalizeChannel(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// IsKnownChannel reports whether name selects a notifier.
func IsKnownChannel(name string) bool {
	n := NormalizeChannel(name)
	for _, ch := range Channels {
		if ch == n {
			return true
		}
	}
	return false
}

// TelegramSettings carry the bot parameters for the telegram channel.
type TelegramSettings struct {
	BotToken string
	ChatID   string
	APIBase  string
	Timeout  time.Duration
}

// NewFanout builds one notifier per named channel. Duplicates are collapsed.
func NewFanout(channels []string, telegram TelegramSettings, logger zerolog.Logger) (Fanout, error) {
	fanout := make(Fanout, 0, len(channels))
	seen := make(map[string]bool, len(channels))
	for _, raw := range channels {
		name := NormalizeChannel(raw)
		if seen[name] {
			continue
		}
		seen[name] = true

		switch name {
		case ChannelLog:
			fanout = append(fanout, NewLogNotifier(logger))
		case ChannelTelegram:
			fanout = append(fanout, NewTelegramNotifier(telegram.BotToken, telegram.ChatID, telegram.APIBase, telegram.Timeout, logger))
		default:
			return nil, fmt.Errorf("unknown alert channel %q", raw)
		}
	}
	return fanout, nil
}
