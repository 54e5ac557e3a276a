package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
)

type messagingClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushChannel sends a Firebase Cloud Messaging notification to the
// recipient's registered device.
type PushChannel struct {
	client messagingClient
	users  repository.UserRepository
}

func NewPushChannel(ctx context.Context, credentialsFile, projectID string, users repository.UserRepository) (*PushChannel, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase messaging: %w", err)
	}
	return &PushChannel{client: client, users: users}, nil
}

func (c *PushChannel) Name() string { return "push" }

func (c *PushChannel) Deliver(ctx context.Context, e Event, m Message) error {
	user, err := c.users.GetByID(ctx, e.Recipient.UserID)
	if err != nil {
		return fmt.Errorf("load push token: %w", err)
	}
	if user.PushToken == nil || *user.PushToken == "" {
		return ErrSkipped
	}

	logger.ExternalServiceCall("fcm", "Send", "kind", e.Kind, "userID", user.ID)
	_, err = c.client.Send(ctx, &messaging.Message{
		Token: *user.PushToken,
		Notification: &messaging.Notification{
			Title: m.Title,
			Body:  m.Body,
		},
		Data: m.Attributes,
	})
	logger.ExternalServiceResult("fcm", "Send", err, "userID", user.ID)
	return err
}
