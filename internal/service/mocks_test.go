package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/repository"
)

// passthroughTx runs fn directly, surfacing its error like a rolled back transaction.
type passthroughTx struct {
	calls int
}

func (p *passthroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	p.calls++
	return fn(ctx)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	args := m.Called(ctx, authID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) IncrementPoints(ctx context.Context, userID string, points int32) error {
	args := m.Called(ctx, userID, points)
	return args.Error(0)
}
func (m *MockUserRepo) SetPayoutOnboarded(ctx context.Context, userID string, onboarded bool) error {
	args := m.Called(ctx, userID, onboarded)
	return args.Error(0)
}

// MockPlotRepo
type MockPlotRepo struct {
	mock.Mock
}

func (m *MockPlotRepo) GetByID(ctx context.Context, id string) (*domain.Plot, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Plot), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetDetail(ctx context.Context, id string) (*domain.BookingDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetail), args.Error(1)
}
func (m *MockBookingRepo) List(ctx context.Context, filter repository.BookingFilter) ([]domain.BookingDetail, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.BookingDetail), args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}
func (m *MockBookingRepo) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	args := m.Called(ctx, id, paidAt)
	return args.Error(0)
}

// MockPaymentRepo
type MockPaymentRepo struct {
	mock.Mock
}

func (m *MockPaymentRepo) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	args := m.Called(ctx, intent)
	return args.Error(0)
}
func (m *MockPaymentRepo) GetByExternalID(ctx context.Context, externalID string) (*domain.PaymentIntent, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentIntent), args.Error(1)
}
func (m *MockPaymentRepo) UpdateStatus(ctx context.Context, id string, status domain.PaymentIntentStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}
func (m *MockPaymentRepo) MarkRefunded(ctx context.Context, id string, patch map[string]any) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

// MockActivityRepo
type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) Create(ctx context.Context, activity *domain.UserActivity) error {
	args := m.Called(ctx, activity)
	return args.Error(0)
}
func (m *MockActivityRepo) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]domain.UserActivity, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.UserActivity), args.Get(1).(int32), args.Error(2)
}

// MockNotificationRepo
type MockNotificationRepo struct {
	mock.Mock
}

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]domain.Notification), args.Get(1).(int32), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

// MockGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCharge(ctx context.Context, req payment.ChargeRequest) (*payment.Charge, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Charge), args.Error(1)
}
func (m *MockGateway) CreateRefund(ctx context.Context, chargeRef string, amount int64) (*domain.Refund, error) {
	args := m.Called(ctx, chargeRef, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Refund), args.Error(1)
}
func (m *MockGateway) RetrieveChargeEvent(ctx context.Context, eventID string) (*payment.ChargeEvent, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.ChargeEvent), args.Error(1)
}
func (m *MockGateway) PayoutAccountReady(ctx context.Context, recipientID string) (bool, error) {
	args := m.Called(ctx, recipientID)
	return args.Bool(0), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Dispatch(ctx context.Context, e notify.Event) notify.Outcome {
	args := m.Called(ctx, e)
	return args.Get(0).(notify.Outcome)
}

// kinds returns the notification kinds dispatched so far, in order.
func (m *MockNotifier) kinds() []notify.Kind {
	var out []notify.Kind
	for _, c := range m.Calls {
		if c.Method == "Dispatch" {
			out = append(out, c.Arguments.Get(1).(notify.Event).Kind)
		}
	}
	return out
}
