// Package notify sends email notifications when videos become available.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/adreel/adreel-api/internal/script"
)

// sender abstracts the SendGrid client for testing.
type sender interface {
	Send(email *mail.SGMailV3) (*rest.Response, error)
}

// EmailNotifier sends a "video ready" mail through SendGrid.
// A notifier constructed without an API key is disabled and sends nothing.
type EmailNotifier struct {
	client sender
	from   string
	to     string
	logger *slog.Logger
}

// NewEmailNotifier creates an email notifier. When apiKey is empty the
// notifier is disabled.
func NewEmailNotifier(apiKey, from, to string, logger *slog.Logger) *EmailNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	n := &EmailNotifier{
		from:   from,
		to:     to,
		logger: logger,
	}
	if apiKey != "" && from != "" && to != "" {
		n.client = sendgrid.NewSendClient(apiKey)
	}
	return n
}

// Enabled returns true when the notifier is configured to send.
func (n *EmailNotifier) Enabled() bool {
	return n.client != nil
}

// VideoReady sends the completion mail for a script.
func (n *EmailNotifier) VideoReady(ctx context.Context, sc *script.Script) error {
	if !n.Enabled() {
		return nil
	}

	url := sc.Video.ResultURL
	if sc.Video.ArchiveURL != "" {
		url = sc.Video.ArchiveURL
	}

	subject := fmt.Sprintf("Video ready: %s", sc.Topic)
	plain := fmt.Sprintf("The video for %q has finished rendering.\n\n%s\n\nScript:\n%s",
		sc.Topic, url, sc.SpokenText())

	msg := mail.NewSingleEmail(
		mail.NewEmail("Adreel", n.from),
		subject,
		mail.NewEmail("", n.to),
		plain,
		"",
	)

	resp, err := n.client.Send(msg)
	if err != nil {
		return fmt.Errorf("notify: send mail: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: sendgrid returned status %d: %s", resp.StatusCode, resp.Body)
	}

	n.logger.Info("video ready mail sent",
		slog.String("script_id", sc.ID),
		slog.String("to", n.to),
	)
	return nil
}
