// Package twilio delivers WhatsApp messages through the Twilio Messages API.
package twilio

import (
	"context"
	"errors"
	"fmt"

	twilioclient "github.com/twilio/twilio-go"
	twilioapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

type messageCreator interface {
	CreateMessage(params *twilioapi.CreateMessageParams) (*twilioapi.ApiV2010Message, error)
}

// Messenger sends one message per call.
type Messenger struct {
	api messageCreator
}

// NewMessenger authenticates with the account SID and auth token.
func NewMessenger(accountSID, authToken string) (*Messenger, error) {
	if accountSID == "" || authToken == "" {
		return nil, errors.New("twilio account sid and auth token are required")
	}
	client := twilioclient.NewRestClientWithParams(twilioclient.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &Messenger{api: client.Api}, nil
}

func (m *Messenger) Send(ctx context.Context, msg ports.Message) error {
	if m == nil || m.api == nil {
		return ports.ErrChannelDisabled
	}
	if msg.From == "" || msg.To == "" {
		return ports.ErrChannelDisabled
	}
	// The SDK call does not take a context; give up before dialing if the caller already has.
	if err := ctx.Err(); err != nil {
		return err
	}
	params := &twilioapi.CreateMessageParams{}
	params.SetFrom(msg.From)
	params.SetTo(msg.To)
	params.SetBody(msg.Body)
	if _, err := m.api.CreateMessage(params); err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	return nil
}

var _ ports.Messenger = (*Messenger)(nil)
