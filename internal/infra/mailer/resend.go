package mailer

import (
	"context"
	"fmt"

	"hr_evaluation_reminder/internal/domain/mail"

	"github.com/resend/resend-go/v2"
)

// ResendSender delivers messages through the Resend API.
type ResendSender struct {
	client    *resend.Client
	fromEmail string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), fromEmail: from}
}

var _ mail.Sender = (*ResendSender)(nil)

func (s *ResendSender) Send(ctx context.Context, msg mail.Message) error {
	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      msg.To,
		Cc:      msg.CC,
		Subject: msg.Subject,
		Html:    msg.HTMLBody,
		Text:    msg.TextBody,
	}
	for _, att := range msg.Attachments {
		params.Attachments = append(params.Attachments, &resend.Attachment{
			Content:     att.Content,
			Filename:    att.Filename,
			ContentType: att.ContentType,
		})
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}
	return nil
}
