package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository"
	"growshare-backend/internal/service"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	args := m.Called(ctx, email, password)
	user, _ := args.Get(1).(*domain.User)
	return args.String(0), user, args.Error(2)
}

func (m *MockAuthService) ResolveUser(ctx context.Context, authID string) (*domain.User, error) {
	args := m.Called(ctx, authID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) CreateBooking(ctx context.Context, renter *domain.User, plotID string, start, end time.Time) (*domain.BookingDetail, error) {
	args := m.Called(ctx, renter, plotID, start, end)
	d, _ := args.Get(0).(*domain.BookingDetail)
	return d, args.Error(1)
}

func (m *MockBookingService) GetBooking(ctx context.Context, actor *domain.User, bookingID string) (*domain.BookingDetail, error) {
	args := m.Called(ctx, actor, bookingID)
	d, _ := args.Get(0).(*domain.BookingDetail)
	return d, args.Error(1)
}

func (m *MockBookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.BookingDetail, int32, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]domain.BookingDetail)
	return list, args.Get(1).(int32), args.Error(2)
}

func (m *MockBookingService) UpdateBookingStatus(ctx context.Context, actor *domain.User, bookingID string, target domain.BookingStatus) (*service.StatusChange, error) {
	args := m.Called(ctx, actor, bookingID, target)
	change, _ := args.Get(0).(*service.StatusChange)
	return change, args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) Checkout(ctx context.Context, renter *domain.User, bookingID, cardToken string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, renter, bookingID, cardToken)
	pi, _ := args.Get(0).(*domain.PaymentIntent)
	return pi, args.Error(1)
}

func (m *MockPaymentService) HandleWebhook(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockPaymentService) RefreshPayoutStatus(ctx context.Context, user *domain.User) (*domain.User, error) {
	args := m.Called(ctx, user)
	u, _ := args.Get(0).(*domain.User)
	return u, args.Error(1)
}

type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	list, _ := args.Get(0).([]domain.Notification)
	return list, args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationService) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

type MockActivityService struct {
	mock.Mock
}

func (m *MockActivityService) ListActivities(ctx context.Context, userID string, page, pageSize int32) ([]domain.UserActivity, int32, error) {
	args := m.Called(ctx, userID, page, pageSize)
	list, _ := args.Get(0).([]domain.UserActivity)
	return list, args.Get(1).(int32), args.Error(2)
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}
