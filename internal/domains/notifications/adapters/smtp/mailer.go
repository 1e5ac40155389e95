// Package smtp delivers notification email over authenticated SMTP.
package smtp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

// Config holds the SMTP account.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer sends each mail on a fresh connection.
type Mailer struct {
	client sender
}

// NewMailer builds a client using PLAIN auth with mandatory STARTTLS.
func NewMailer(cfg Config) (*Mailer, error) {
	if strings.TrimSpace(cfg.Host) == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("smtp credentials are required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	return &Mailer{client: client}, nil
}

func (m *Mailer) Send(ctx context.Context, msg ports.Mail) error {
	if m == nil || m.client == nil {
		return ports.ErrChannelDisabled
	}
	built, err := BuildMessage(msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// BuildMessage converts a port mail into a MIME message.
func BuildMessage(msg ports.Mail) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("invalid sender %q: %w", msg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	return m, nil
}

var _ ports.Mailer = (*Mailer)(nil)
