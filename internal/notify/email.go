package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"growshare-backend/internal/logger"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// EmailChannel sends the message through SendGrid.
type EmailChannel struct {
	client    mailSender
	fromEmail string
	fromName  string
}

func NewEmailChannel(apiKey, fromEmail, fromName string) *EmailChannel {
	return &EmailChannel{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Deliver(ctx context.Context, e Event, m Message) error {
	if e.Recipient.Email == "" {
		return ErrSkipped
	}
	from := mail.NewEmail(c.fromName, c.fromEmail)
	to := mail.NewEmail(e.Recipient.Name, e.Recipient.Email)
	greeting := "Hello"
	if e.Recipient.Name != "" {
		greeting = "Hello " + e.Recipient.Name
	}
	plain := fmt.Sprintf("%s,\n\n%s\n\nThe GrowShare Team", greeting, m.Body)
	html := fmt.Sprintf("<p>%s,</p><p>%s</p><p>The GrowShare Team</p>", greeting, m.Body)
	message := mail.NewSingleEmail(from, m.Title, to, plain, html)

	logger.ExternalServiceCall("sendgrid", "Send", "kind", e.Kind, "userID", e.Recipient.UserID)
	resp, err := c.client.SendWithContext(ctx, message)
	if err == nil && resp.StatusCode >= 400 {
		err = fmt.Errorf("sendgrid error: status %d, body: %s", resp.StatusCode, resp.Body)
	}
	logger.ExternalServiceResult("sendgrid", "Send", err, "userID", e.Recipient.UserID)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
