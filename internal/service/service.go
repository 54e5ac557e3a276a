package service

import (
	"context"
	"time"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/repository"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	// ResolveUser maps a token subject to the stored user.
	ResolveUser(ctx context.Context, authID string) (*domain.User, error)
}

type BookingService interface {
	CreateBooking(ctx context.Context, renter *domain.User, plotID string, start, end time.Time) (*domain.BookingDetail, error)
	GetBooking(ctx context.Context, actor *domain.User, bookingID string) (*domain.BookingDetail, error)
	ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.BookingDetail, int32, error)
	UpdateBookingStatus(ctx context.Context, actor *domain.User, bookingID string, target domain.BookingStatus) (*StatusChange, error)
}

type PaymentService interface {
	Checkout(ctx context.Context, renter *domain.User, bookingID, cardToken string) (*domain.PaymentIntent, error)
	HandleWebhook(ctx context.Context, eventID string) error
	RefreshPayoutStatus(ctx context.Context, user *domain.User) (*domain.User, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID string) error
}

type ActivityService interface {
	ListActivities(ctx context.Context, userID string, page, pageSize int32) ([]domain.UserActivity, int32, error)
}

// StatusChange is the result of a successful status update. Refund is nil
// unless money was returned to the renter.
type StatusChange struct {
	Booking *domain.BookingDetail
	Refund  *domain.RefundInfo
}

// Notifier fans a notification event out to its channels.
type Notifier interface {
	Dispatch(ctx context.Context, e notify.Event) notify.Outcome
}

// Transactor runs fn in one database transaction.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

const (
	defaultPageSize int32 = 20
	maxPageSize     int32 = 100
)

// normalizePage clamps paging input and returns page, pageSize and offset.
func normalizePage(page, pageSize int32) (int32, int32, int32) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize, (page - 1) * pageSize
}

func recipientOf(u domain.UserSummary) notify.Recipient {
	return notify.Recipient{UserID: u.ID, Name: u.Name, Email: u.Email}
}
