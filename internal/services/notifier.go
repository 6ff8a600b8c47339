package services

import (
	"context"

	"go.uber.org/zap"
	"gopkg.in/mail.v2"

	"github.com/example/salon/internal/config"
)

// SMSSender delivers a text message to a phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// Mailer delivers a plain-text email.
type Mailer interface {
	SendMail(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes messages to the log instead of delivering them. It stands in for
// an SMS gateway, and for SMTP when no host is configured.
type LogNotifier struct {
	log *zap.Logger
}

// NewLogNotifier constructs a LogNotifier.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) SendSMS(_ context.Context, phone, message string) error {
	n.log.Info("sms", zap.String("to", phone), zap.String("message", message))
	return nil
}

func (n *LogNotifier) SendMail(_ context.Context, to, subject, body string) error {
	n.log.Info("mail", zap.String("to", to), zap.String("subject", subject), zap.String("body", body))
	return nil
}

// SMTPMailer sends mail through the configured SMTP relay.
type SMTPMailer struct {
	dialer *mail.Dialer
	from   string
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg *config.Config) *SMTPMailer {
	return &SMTPMailer{
		dialer: mail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		from:   cfg.MailFrom,
	}
}

func (m *SMTPMailer) SendMail(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// NewMailer returns an SMTPMailer when SMTP is configured and a LogNotifier otherwise.
func NewMailer(cfg *config.Config, log *zap.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogNotifier(log)
	}
	return NewSMTPMailer(cfg)
}
