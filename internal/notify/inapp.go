package notify

import (
	"context"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository"
)

// InAppChannel stores the message in the user's notification inbox.
type InAppChannel struct {
	repo repository.NotificationRepository
}

func NewInAppChannel(repo repository.NotificationRepository) *InAppChannel {
	return &InAppChannel{repo: repo}
}

func (c *InAppChannel) Name() string { return "in_app" }

func (c *InAppChannel) Deliver(ctx context.Context, e Event, m Message) error {
	return c.repo.Create(ctx, &domain.Notification{
		UserID:     e.Recipient.UserID,
		Title:      m.Title,
		Message:    m.Body,
		Attributes: m.Attributes,
	})
}
