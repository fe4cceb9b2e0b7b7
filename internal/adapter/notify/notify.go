// Package notify delivers run summaries to Pushover and Telegram. Channels
// are independent: a failure on one does not block the other.
package notify

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sandgroper/shorecast/internal/config"
	"github.com/sandgroper/shorecast/internal/domain"
	"github.com/sandgroper/shorecast/internal/rating"
)

const (
	pushoverURL     = "https://api.pushover.net/1/messages.json"
	telegramURLBase = "https://api.telegram.org"

	summaryDays  = 3
	notableScore = 6.0
)

// Notifier sends forecast summaries over the enabled channels.
type Notifier struct {
	httpClient *http.Client
	logger     *slog.Logger

	pushoverEnabled bool
	pushoverToken   string
	pushoverUser    string

	telegramEnabled bool
	telegramURL     string
	telegramChatID  string
}

// NewNotifier creates a notifier from the service configuration.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	return &Notifier{
		httpClient:      &http.Client{Timeout: 30 * time.Second},
		logger:          logger,
		pushoverEnabled: cfg.EnablePushover,
		pushoverToken:   cfg.PushoverToken,
		pushoverUser:    cfg.PushoverUser,
		telegramEnabled: cfg.EnableTelegram,
		telegramURL:     telegramURLBase + "/bot" + cfg.TelegramToken + "/sendMessage",
		telegramChatID:  cfg.TelegramChatID,
	}
}

// Enabled reports whether at least one channel is configured.
func (n *Notifier) Enabled() bool {
	return n.pushoverEnabled || n.telegramEnabled
}

// Result is the delivery outcome for one channel.
type Result struct {
	Channel string
	Err     error
}

// NotifyRun formats the run summary and sends it to every enabled channel.
func (n *Notifier) NotifyRun(ctx context.Context, run *domain.ForecastRun) []Result {
	title, body := BuildSummary(run)

	var results []Result
	if n.pushoverEnabled {
		err := n.sendPushover(ctx, title, body)
		if err != nil {
			n.logger.Error("pushover delivery failed", "error", err)
		}
		results = append(results, Result{Channel: "pushover", Err: err})
	}
	if n.telegramEnabled {
		err := n.sendTelegram(ctx, body)
		if err != nil {
			n.logger.Error("telegram delivery failed", "error", err)
		}
		results = append(results, Result{Channel: "telegram", Err: err})
	}
	return results
}

func (n *Notifier) sendPushover(ctx context.Context, title, message string) error {
	form := url.Values{
		"token":   {n.pushoverToken},
		"user":    {n.pushoverUser},
		"title":   {title},
		"message": {message},
		"html":    {"0"},
	}
	return n.postForm(ctx, pushoverURL, form)
}

func (n *Notifier) sendTelegram(ctx context.Context, message string) error {
	form := url.Values{
		"chat_id": {n.telegramChatID},
		"text":    {message},
	}
	return n.postForm(ctx, n.telegramURL, form)
}

func (n *Notifier) postForm(ctx context.Context, endpoint string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// BuildSummary renders a run as a short plain-text digest: the best snorkel
// and beach picks per day for the next few days, today's water temperature,
// and any data gaps.
func BuildSummary(run *domain.ForecastRun) (title, body string) {
	var b strings.Builder

	b.WriteString("SNORKELLING (Next 3 Days)\n")
	writeDiscipline(&b, run, func(df domain.DailyForecast) (*float64, *domain.BestWindow) {
		return df.SnorkelScore, df.BestWindow
	})

	b.WriteString("\nSUNBATHING (Next 3 Days)\n")
	writeDiscipline(&b, run, func(df domain.DailyForecast) (*float64, *domain.BestWindow) {
		return df.BeachScore, nil
	})

	if water := firstWaterTemp(run); water != nil {
		fmt.Fprintf(&b, "\nWater: %.1f°C\n", *water)
	}
	if len(run.Meta.Failed) > 0 {
		fmt.Fprintf(&b, "Missing data: %s\n", strings.Join(run.Meta.Failed, ", "))
	}
	if run.BestSnorkel != nil && !run.BestSnorkel.Viable {
		fmt.Fprintf(&b, "SNORKEL: no viable picks. %s\n", run.BestSnorkel.Why)
	}
	if run.BestBeach != nil && !run.BestBeach.Viable {
		fmt.Fprintf(&b, "BEACH: no viable picks. %s\n", run.BestBeach.Why)
	}

	return "Shorecast " + run.Meta.Mode, strings.TrimRight(b.String(), "\n")
}

func writeDiscipline(b *strings.Builder, run *domain.ForecastRun, score func(domain.DailyForecast) (*float64, *domain.BestWindow)) {
	days := run.Days
	if len(days) > summaryDays {
		days = days[:summaryDays]
	}
	for _, day := range days {
		label := dateLabel(day.Date)

		type pick struct {
			name   string
			score  float64
			window *domain.BestWindow
		}
		var picks []pick
		for _, df := range day.Forecasts {
			s, w := score(df)
			if s != nil && *s >= notableScore {
				picks = append(picks, pick{name: shortName(df.Location), score: *s, window: w})
			}
		}
		if len(picks) == 0 {
			fmt.Fprintf(b, "%s: no good spots\n", label)
			continue
		}
		sort.Slice(picks, func(i, j int) bool { return picks[i].score > picks[j].score })

		best := picks[0]
		line := fmt.Sprintf("%s: %s %.1f/10", label, rating.Label(best.score), best.score)
		if best.window != nil {
			line += fmt.Sprintf(" (%02d:00-%02d:00)", best.window.StartHour, best.window.EndHour)
		}
		b.WriteString(line + "\n")

		names := make([]string, 0, 3)
		for i, p := range picks {
			if i == 3 {
				break
			}
			names = append(names, p.name)
		}
		extra := ""
		if len(picks) > 3 {
			extra = fmt.Sprintf(" +%d", len(picks)-3)
		}
		fmt.Fprintf(b, "   %s%s\n", strings.Join(names, ", "), extra)
	}
}

var nameSuffixes = []string{" Pool", " Bay", " Reef", " Wreck", " Lagoon", " Beach"}

func shortName(name string) string {
	for _, suffix := range nameSuffixes {
		name = strings.ReplaceAll(name, suffix, "")
	}
	return name
}

func dateLabel(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return t.Format("Mon 2 Jan")
}

func firstWaterTemp(run *domain.ForecastRun) *float64 {
	for _, day := range run.Days {
		for _, df := range day.Forecasts {
			if df.WaterC != nil {
				return df.WaterC
			}
		}
	}
	return nil
}
