package smtp

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"github.com/Apurer/sundus-book-orders/internal/domains/notifications/ports"
)

type fakeSender struct {
	messages []*mail.Msg
	err      error
}

func (f *fakeSender) DialAndSendWithContext(_ context.Context, messages ...*mail.Msg) error {
	f.messages = append(f.messages, messages...)
	return f.err
}

func TestBuildMessage(t *testing.T) {
	msg, err := BuildMessage(ports.Mail{From: "shop@example.com", To: "cust@example.com", Subject: "✅ Order Confirmation", HTML: "<p>hi</p>"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = msg.WriteTo(&buf)
	require.NoError(t, err)
	raw := buf.String()
	assert.Contains(t, raw, "From: <shop@example.com>")
	assert.Contains(t, raw, "To: <cust@example.com>")
	assert.Contains(t, raw, "text/html")
}

func TestBuildMessage_InvalidRecipient(t *testing.T) {
	_, err := BuildMessage(ports.Mail{From: "shop@example.com", To: "not an address"})
	require.Error(t, err)
}

func TestMailer_Send(t *testing.T) {
	sender := &fakeSender{}
	m := &Mailer{client: sender}
	require.NoError(t, m.Send(context.Background(), ports.Mail{From: "a@example.com", To: "b@example.com", Subject: "s", HTML: "h"}))
	assert.Len(t, sender.messages, 1)

	sender.err = errors.New("535 auth failed")
	err := m.Send(context.Background(), ports.Mail{From: "a@example.com", To: "b@example.com"})
	require.ErrorContains(t, err, "535 auth failed")
}

func TestNewMailer_RequiresCredentials(t *testing.T) {
	_, err := NewMailer(Config{Host: "smtp.gmail.com"})
	require.Error(t, err)

	m, err := NewMailer(Config{Host: "smtp.gmail.com", Username: "u@example.com", Password: "p"})
	require.NoError(t, err)
	assert.NotNil(t, m.client)
}
