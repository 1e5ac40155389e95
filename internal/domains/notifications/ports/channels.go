package ports

import (
	"context"
	"errors"
)

// ErrChannelDisabled is returned by channels left unconfigured.
var ErrChannelDisabled = errors.New("notification channel disabled")

// Mail is an HTML email.
type Mail struct {
	From    string
	To      string
	Subject string
	HTML    string
}

// Message is a plain-text chat message.
type Message struct {
	From string
	To   string
	Body string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, mail Mail) error
}

// Messenger delivers chat messages.
type Messenger interface {
	Send(ctx context.Context, msg Message) error
}
