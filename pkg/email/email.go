// Package email delivers plain-text and HTML notifications over SMTP.
package email

import (
	"context"
	"errors"
	"time"

	"github.com/wneessen/go-mail"

	dErrors "regcheck/pkg/domain-errors"
)

// Message is one outbound email. HTML is optional.
type Message struct {
	From    string
	To      []string
	Subject string
	Text    string
	HTML    string
}

// Config describes the SMTP relay.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
}

type deliverer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// SMTPSender sends through a relay with a bounded timeout and no retry.
type SMTPSender struct {
	client deliverer
}

// NewSMTPSender builds a sender. Auth is enabled when a username is set.
func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	if cfg.Host == "" {
		return nil, errors.New("email: SMTP host is required")
	}
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(cfg.Timeout))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}
	return &SMTPSender{client: client}, nil
}

// Send delivers msg. Any failure is an upstream error.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := build(msg)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid email message")
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUpstream, "smtp delivery failed")
	}
	return nil
}

func build(msg Message) (*mail.Msg, error) {
	if len(msg.To) == 0 {
		return nil, errors.New("no recipients")
	}
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, err
	}
	if err := m.To(msg.To...); err != nil {
		return nil, err
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}
