// Package logging stands in for unconfigured channels by logging what would have been sent.
package logging

import (
	"context"
	"log/slog"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

type Mailer struct {
	logger *slog.Logger
}

func NewMailer(logger *slog.Logger) *Mailer {
	return &Mailer{logger: logger}
}

func (m *Mailer) Send(ctx context.Context, mail ports.Mail) error {
	if m.logger != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "email channel not configured, dropping mail",
			slog.String("to", mail.To), slog.String("subject", mail.Subject))
	}
	return ports.ErrChannelDisabled
}

type Messenger struct {
	logger *slog.Logger
}

func NewMessenger(logger *slog.Logger) *Messenger {
	return &Messenger{logger: logger}
}

func (m *Messenger) Send(ctx context.Context, msg ports.Message) error {
	if m.logger != nil {
		m.logger.LogAttrs(ctx, slog.LevelWarn, "whatsapp channel not configured, dropping message",
			slog.String("to", msg.To), slog.Int("body.length", len(msg.Body)))
	}
	return ports.ErrChannelDisabled
}

var (
	_ ports.Mailer    = (*Mailer)(nil)
	_ ports.Messenger = (*Messenger)(nil)
)
