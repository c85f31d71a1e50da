// Package notify sends alerts when a high-priority lead arrives.
package notify

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"

	"github.com/jonathan/lead-intel/internal/config"
	"github.com/jonathan/lead-intel/internal/types"
)

//go:embed lead_alert.txt
var alertTemplate string

var alertTmpl = template.Must(template.New("lead_alert").Parse(alertTemplate))

// Notifier delivers a lead alert.
type Notifier interface {
	NotifyLead(ctx context.Context, lead types.PersistedLead) error
}

// ShouldNotify reports whether a lead warrants an alert.
func ShouldNotify(lead types.PersistedLead) bool {
	return lead.Priority == types.PriorityHigh
}

// NoopNotifier discards alerts.
type NoopNotifier struct{}

func (NoopNotifier) NotifyLead(context.Context, types.PersistedLead) error { return nil }

// New returns an EmailNotifier when notifications are enabled, else a NoopNotifier.
func New(cfg config.NotifyConfig) Notifier {
	if !cfg.Enabled {
		return NoopNotifier{}
	}
	return NewEmailNotifier(cfg)
}

// EmailNotifier sends alerts over SMTP.
type EmailNotifier struct {
	from string
	to   []string
	send func(*gomail.Message) error
}

// NewEmailNotifier creates an SMTP notifier.
func NewEmailNotifier(cfg config.NotifyConfig) *EmailNotifier {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password)
	return &EmailNotifier{
		from: cfg.From,
		to:   cfg.To,
		send: func(m *gomail.Message) error { return d.DialAndSend(m) },
	}
}

// NotifyLead e-mails the configured recipients about lead.
//
// gomail bounds only the dial, so the SMTP session runs in its own goroutine
// and NotifyLead returns ctx.Err() once ctx is done. An abandoned session
// finishes or fails on its own.
func (n *EmailNotifier) NotifyLead(ctx context.Context, lead types.PersistedLead) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := n.buildMessage(lead)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- n.send(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send lead alert: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("lead alert abandoned: %w", ctx.Err())
	}
}

func (n *EmailNotifier) buildMessage(lead types.PersistedLead) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := alertTmpl.Execute(&body, lead); err != nil {
		return nil, fmt.Errorf("failed to render lead alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", subject(lead))
	if lead.Email != "" {
		m.SetHeader("Reply-To", lead.Email)
	}
	m.SetBody("text/plain", body.String())
	return m, nil
}

func subject(lead types.PersistedLead) string {
	who := lead.Name
	if lead.Company != "" {
		who = fmt.Sprintf("%s (%s)", lead.Name, lead.Company)
	}
	return fmt.Sprintf("[%s %d] New lead: %s", lead.Priority, lead.Score, who)
}
