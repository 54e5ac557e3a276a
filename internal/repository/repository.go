package repository

import (
	"context"
	"time"

	"growshare-backend/internal/domain"
)

// BookingRole selects which side of a booking a listing is for.
type BookingRole string

const (
	BookingRoleRenter BookingRole = "renter"
	BookingRoleOwner  BookingRole = "owner"
)

// BookingFilter enumerates every supported listing option. Nil pointers mean
// "no constraint".
type BookingFilter struct {
	UserID   string
	Role     BookingRole
	Status   *domain.BookingStatus
	PlotID   *string
	Page     int32
	PageSize int32
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByAuthID(ctx context.Context, authID string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	IncrementPoints(ctx context.Context, userID string, points int32) error
	SetPayoutOnboarded(ctx context.Context, userID string, onboarded bool) error
}

type PlotRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Plot, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetDetail(ctx context.Context, id string) (*domain.BookingDetail, error)
	List(ctx context.Context, filter BookingFilter) ([]domain.BookingDetail, int32, error)
	// UpdateStatus writes to only if the booking is still in from.
	// It returns domain.ErrStatusConflict when no row matched.
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	MarkPaid(ctx context.Context, id string, paidAt time.Time) error
}

type PaymentIntentRepository interface {
	Create(ctx context.Context, intent *domain.PaymentIntent) error
	GetByExternalID(ctx context.Context, externalID string) (*domain.PaymentIntent, error)
	UpdateStatus(ctx context.Context, id string, status domain.PaymentIntentStatus) error
	// MarkRefunded sets status REFUNDED and merges patch into the stored metadata.
	MarkRefunded(ctx context.Context, id string, patch map[string]any) error
}

type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.UserActivity) error
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]domain.UserActivity, int32, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID string) error
}
