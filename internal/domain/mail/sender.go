package mail

import "context"

// Attachment is a file carried by an outbound message.
type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Message is one outbound email.
type Message struct {
	To          []string
	CC          []string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Sender defines an interface for delivering email.
// This keeps the application logic independent of the transport (SMTP, Resend).
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
