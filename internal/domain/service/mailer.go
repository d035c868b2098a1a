package service

import "context"

// Mail is a plain-text e-mail message.
type Mail struct {
	To      string
	Subject string
	Body    string
}

// Mailer delivers e-mail messages.
type Mailer interface {
	Send(ctx context.Context, mail *Mail) error
}
