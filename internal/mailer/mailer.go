package mailer

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	gomail "github.com/wneessen/go-mail"
)

// Message is a single outbound mail.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers outbound mail. Delivery is best-effort: callers must not
// let a Send failure propagate into their own result.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPconfig carries the connection settings for an SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg SMTPConfig
}

// NewSMTPSender returns a Sender that delivers via the configured SMTP relay.
func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg}
}

func (s *smtpSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	m.SetMessageIDWithValue(uuid.NewString())
	if err := m.From(s.cfg.From); err != nil {
		return fmt.Errorf("set mail from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("set mail to: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)

	client, err := gomail.NewClient(s.cfg.Host,
		gomail.WithPort(s.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.cfg.Username),
		gomail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

type nopSender struct {
	logger logrus.FieldLogger
}

// NewNopSender returns a Sender that only logs, for deployments without an
// SMTP relay configured.
func NewNopSender(logger logrus.FieldLogger) Sender {
	return &nopSender{logger: logger}
}

func (s *nopSender) Send(_ context.Context, msg Message) error {
	s.logger.Infof("mail delivery disabled, dropping message to %s (%s)", msg.To, msg.Subject)
	return nil
}
