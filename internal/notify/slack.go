// Package notify sends outbound alerts when the daemon spots trouble:
// a watch run introducing new errors, or a link sweep finding breakage.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"git.home.luguber.info/inful/blogkit/internal/lint"
	"git.home.luguber.info/inful/blogkit/internal/logfields"
)

// Notifier delivers daemon alerts.
type Notifier interface {
	LintRegression(ctx context.Context, newErrors int, result *lint.Result) error
	LinkBreakage(ctx context.Context, broken []string) error
}

// Slack posts alerts to an incoming webhook.
type Slack struct {
	webhookURL string
}

// NewSlack creates a webhook-based notifier.
func NewSlack(webhookURL string) *Slack {
	return &Slack{webhookURL: webhookURL}
}

// LintRegression reports a watch run that introduced new errors.
func (s *Slack) LintRegression(ctx context.Context, newErrors int, result *lint.Result) error {
	text := fmt.Sprintf(":x: blogkit: %d new lint error(s) — now %d error(s), %d warning(s) across %d file(s)",
		newErrors, result.ErrorCount(), result.WarningCount(), result.FilesTotal)
	return s.post(ctx, text)
}

// LinkBreakage reports URLs that stopped resolving during a sweep.
func (s *Slack) LinkBreakage(ctx context.Context, broken []string) error {
	if len(broken) == 0 {
		return nil
	}
	text := fmt.Sprintf(":link: blogkit: %d broken link(s):", len(broken))
	for i, u := range broken {
		if i == 10 {
			text += fmt.Sprintf("\n… and %d more", len(broken)-10)
			break
		}
		text += "\n• " + u
	}
	return s.post(ctx, text)
}

func (s *Slack) post(ctx context.Context, text string) error {
	err := slack.PostWebhookContext(ctx, s.webhookURL, &slack.WebhookMessage{Text: text})
	if err != nil {
		slog.Error("Slack notification failed", logfields.Error(err))
		return err
	}
	slog.Debug("Slack notification sent")
	return nil
}
