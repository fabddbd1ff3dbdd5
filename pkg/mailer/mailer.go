package mailer

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"

	"github.com/nimasrn/ledger-api/pkg/logger"
)

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// SMTPMailer dials the server for every message. Password reset mail is rare
// enough that a pooled connection is not worth keeping open.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(c Config) *SMTPMailer {
	from := c.From
	if from == "" {
		from = c.User
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(c.Host, c.Port, c.User, c.Password),
		from:   from,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := NewMessage(m.from, to, subject, html)
	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Error("failed to send mail", "to", to, "subject", subject, "error", err)
		return errors.Wrap(err, "send mail")
	}

	logger.Info("mail sent", "to", to, "subject", subject)
	return nil
}

func NewMessage(from, to, subject, html string) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", html)
	return msg
}

// WriteMessage renders the MIME message, mainly for inspection in tests and
// for the log mailer.
func WriteMessage(w io.Writer, from, to, subject, html string) error {
	_, err := NewMessage(from, to, subject, html).WriteTo(w)
	return err
}

// LogMailer writes mail to the log instead of sending it. Used when no SMTP
// user is configured.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, html string) error {
	logger.Warn("smtp not configured, mail not sent", "to", to, "subject", subject, "body", html)
	return nil
}
