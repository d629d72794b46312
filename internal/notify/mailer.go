// Package notify delivers best-effort notifications to ticket handlers.
package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-triage/internal/config"
)

// Mailer sends plain-text email over SMTP. Without an SMTP host it logs the
// message and reports success, which keeps development environments quiet.
type Mailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

// NewMailer creates the mailer.
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) *Mailer {
	return &Mailer{cfg: cfg, logger: logger}
}

// Send delivers one message. Callers treat failures as best-effort; the
// error is returned for logging only.
func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if m.cfg.Host == "" {
		m.logger.Info("smtp not configured; notification logged only",
			zap.String("to", to),
			zap.String("subject", subject))
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body)

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}
	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Debug("notification sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}
