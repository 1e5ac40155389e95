package application

import (
	"context"
	"fmt"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/domain"
	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

// Addresses configures senders and staff recipients.
type Addresses struct {
	// ContactEmail is both the sender and the staff inbox.
	ContactEmail string
	WhatsAppFrom string
	WhatsAppTo   string
}

// Deliverer renders an order notice and hands it to the channel's transport.
type Deliverer struct {
	mailer    ports.Mailer
	messenger ports.Messenger
	renderer  *domain.Renderer
	addresses Addresses
}

func NewDeliverer(mailer ports.Mailer, messenger ports.Messenger, addresses Addresses, renderer *domain.Renderer) *Deliverer {
	if renderer == nil {
		renderer = domain.NewRenderer()
	}
	return &Deliverer{mailer: mailer, messenger: messenger, renderer: renderer, addresses: addresses}
}

func (d *Deliverer) Deliver(ctx context.Context, channel ports.Channel, notice domain.OrderNotice) error {
	switch channel {
	case ports.ChannelAdminEmail:
		msg, err := d.renderer.AdminEmail(notice)
		if err != nil {
			return err
		}
		return d.sendMail(ctx, d.addresses.ContactEmail, msg)
	case ports.ChannelCustomerEmail:
		if !notice.HasEmail() {
			return nil
		}
		msg, err := d.renderer.CustomerEmail(notice)
		if err != nil {
			return err
		}
		return d.sendMail(ctx, notice.Email, msg)
	case ports.ChannelWhatsApp:
		msg, err := d.renderer.WhatsApp(notice)
		if err != nil {
			return err
		}
		if d.messenger == nil {
			return ports.ErrChannelDisabled
		}
		return d.messenger.Send(ctx, ports.Message{
			From: d.addresses.WhatsAppFrom,
			To:   d.addresses.WhatsAppTo,
			Body: msg.Body,
		})
	default:
		return fmt.Errorf("unknown notification channel %q", channel)
	}
}

func (d *Deliverer) sendMail(ctx context.Context, to string, msg domain.Rendered) error {
	if d.mailer == nil {
		return ports.ErrChannelDisabled
	}
	return d.mailer.Send(ctx, ports.Mail{
		From:    d.addresses.ContactEmail,
		To:      to,
		Subject: msg.Subject,
		HTML:    msg.Body,
	})
}

var _ ports.Deliverer = (*Deliverer)(nil)
