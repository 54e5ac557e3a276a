package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/repository"
	"growshare-backend/internal/security"
	"growshare-backend/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type apiFixture struct {
	router     http.Handler
	tokens     security.TokenManager
	auth       *MockAuthService
	bookings   *MockBookingService
	payments   *MockPaymentService
	notes      *MockNotificationService
	activities *MockActivityService
	renter     *domain.User
	token      string
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		tokens:     security.NewTokenManager(testSecret, "growshare-auth", time.Hour),
		auth:       new(MockAuthService),
		bookings:   new(MockBookingService),
		payments:   new(MockPaymentService),
		notes:      new(MockNotificationService),
		activities: new(MockActivityService),
		renter:     &domain.User{ID: "renter-1", AuthID: "auth-renter", Name: "Remy", Points: 30},
	}
	token, err := f.tokens.GenerateAccessToken("auth-renter", "remy@example.com")
	require.NoError(t, err)
	f.token = token
	f.auth.On("ResolveUser", mock.Anything, "auth-renter").Return(f.renter, nil).Maybe()

	f.router = NewRouter(Handlers{
		Auth:    NewAuthHandler(f.auth),
		Booking: NewBookingHandler(f.bookings),
		Payment: NewPaymentHandler(f.payments),
		Inbox:   NewInboxHandler(f.notes, f.activities),
		Health:  HealthHandler(fakePinger{}),
	}, NewAuthMiddleware(f.tokens, f.auth))
	return f
}

func (f *apiFixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func sampleDetail(status domain.BookingStatus) *domain.BookingDetail {
	return &domain.BookingDetail{
		Booking: domain.Booking{
			ID:          "booking-1",
			PlotID:      "plot-1",
			RenterID:    "renter-1",
			StartDate:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC),
			Status:      status,
			TotalAmount: 10000,
		},
		Plot:   domain.PlotSummary{ID: "plot-1", Title: "Sunny Patch", OwnerID: "owner-1"},
		Owner:  domain.UserSummary{ID: "owner-1", Name: "Olive", Email: "olive@example.com", Phone: "555-0100"},
		Renter: domain.UserSummary{ID: "renter-1", Name: "Remy", Email: "remy@example.com"},
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Run("MissingToken", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.do(http.MethodGet, "/api/bookings/booking-1", "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("InvalidToken", func(t *testing.T) {
		f := newAPIFixture(t)
		f.token = "not-a-jwt"
		rec := f.do(http.MethodGet, "/api/bookings/booking-1", "", true)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newAPIFixture(t)
		token, err := f.tokens.GenerateAccessToken("auth-ghost", "ghost@example.com")
		require.NoError(t, err)
		f.token = token
		f.auth.On("ResolveUser", mock.Anything, "auth-ghost").Return(nil, domain.ErrUserNotFound)

		rec := f.do(http.MethodGet, "/api/bookings/booking-1", "", true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("PublicRouteSkipsAuth", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.do(http.MethodGet, "/healthz", "", false)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(requestIDHeader))
	})
}

func TestUpdateBookingStatus(t *testing.T) {
	cases := []struct {
		name       string
		body       string
		err        error
		wantCode   int
		wantFields map[string]any
	}{
		{
			name:       "MissingStatus",
			body:       `{}`,
			wantCode:   http.StatusBadRequest,
			wantFields: map[string]any{"error": msgInvalidStatus},
		},
		{
			name:       "UnknownStatus",
			body:       `{"status":"ACTIVE"}`,
			err:        domain.ErrInvalidStatus,
			wantCode:   http.StatusBadRequest,
			wantFields: map[string]any{"error": msgInvalidStatus},
		},
		{
			name:     "IllegalTransition",
			body:     `{"status":"APPROVED"}`,
			err:      &domain.TransitionError{From: domain.BookingStatusCancelled, To: domain.BookingStatusApproved},
			wantCode: http.StatusBadRequest,
			wantFields: map[string]any{
				"error":         "cannot approve a cancelled booking",
				"currentStatus": "CANCELLED",
				"targetStatus":  "APPROVED",
			},
		},
		{
			name:       "PayoutSetupRequired",
			body:       `{"status":"APPROVED"}`,
			err:        domain.ErrPayoutSetupRequired,
			wantCode:   http.StatusBadRequest,
			wantFields: map[string]any{"requiresConnectSetup": true},
		},
		{
			name:       "LostRace",
			body:       `{"status":"CANCELLED"}`,
			err:        domain.ErrStatusConflict,
			wantCode:   http.StatusBadRequest,
			wantFields: map[string]any{"error": domain.ErrStatusConflict.Error()},
		},
		{
			name:       "Forbidden",
			body:       `{"status":"APPROVED"}`,
			err:        domain.NewPermissionError("only the plot owner can approve or reject bookings"),
			wantCode:   http.StatusForbidden,
			wantFields: map[string]any{"error": "only the plot owner can approve or reject bookings"},
		},
		{
			name:     "NotFound",
			body:     `{"status":"CANCELLED"}`,
			err:      domain.ErrBookingNotFound,
			wantCode: http.StatusNotFound,
		},
		{
			name:       "InternalErrorIsHidden",
			body:       `{"status":"CANCELLED"}`,
			err:        errors.New("pq: connection reset by peer"),
			wantCode:   http.StatusInternalServerError,
			wantFields: map[string]any{"error": msgInternal},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newAPIFixture(t)
			if tc.err != nil {
				f.bookings.On("UpdateBookingStatus", mock.Anything, f.renter, "booking-1", mock.Anything).Return(nil, tc.err)
			}

			rec := f.do(http.MethodPatch, "/api/bookings/booking-1", tc.body, true)
			assert.Equal(t, tc.wantCode, rec.Code)
			body := decodeBody(t, rec)
			for k, v := range tc.wantFields {
				assert.Equal(t, v, body[k], k)
			}
			assert.NotContains(t, rec.Body.String(), "pq:")
		})
	}

	t.Run("CancelWithRefund", func(t *testing.T) {
		f := newAPIFixture(t)
		d := sampleDetail(domain.BookingStatusCancelled)
		d.PaymentIntent = &domain.PaymentIntent{
			ID: "pi-1", Amount: 10000, Currency: "usd", Status: domain.PaymentIntentStatusRefunded,
			Metadata: map[string]any{"refundPercentage": 100},
		}
		f.bookings.On("UpdateBookingStatus", mock.Anything, f.renter, "booking-1", domain.BookingStatusCancelled).
			Return(&service.StatusChange{Booking: d, Refund: &domain.RefundInfo{RefundID: "rfnd_1", Amount: 10000, Percentage: 100}}, nil)

		rec := f.do(http.MethodPatch, "/api/bookings/booking-1", `{"status":"CANCELLED"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		assert.Equal(t, "CANCELLED", body["status"])
		assert.Equal(t, "2025-07-01", body["startDate"])
		plot := body["plot"].(map[string]any)
		assert.Equal(t, "Sunny Patch", plot["title"])
		intent := body["paymentIntent"].(map[string]any)
		assert.Equal(t, "REFUNDED", intent["status"])
		refund := body["refund"].(map[string]any)
		assert.Equal(t, float64(100), refund["percentage"])
		assert.Equal(t, "rfnd_1", refund["id"])
	})
}

func TestGetBooking(t *testing.T) {
	f := newAPIFixture(t)
	f.bookings.On("GetBooking", mock.Anything, f.renter, "booking-1").Return(sampleDetail(domain.BookingStatusApproved), nil)
	f.bookings.On("GetBooking", mock.Anything, f.renter, "booking-2").
		Return(nil, domain.NewPermissionError("you do not have permission to view this booking"))

	rec := f.do(http.MethodGet, "/api/bookings/booking-1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	owner := decodeBody(t, rec)["owner"].(map[string]any)
	assert.Equal(t, "555-0100", owner["phone"])

	rec = f.do(http.MethodGet, "/api/bookings/booking-2", "", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListBookings(t *testing.T) {
	t.Run("FilterFromQuery", func(t *testing.T) {
		f := newAPIFixture(t)
		f.bookings.On("ListBookings", mock.Anything, mock.MatchedBy(func(filter repository.BookingFilter) bool {
			return filter.UserID == "renter-1" &&
				filter.Role == repository.BookingRoleOwner &&
				filter.Status != nil && *filter.Status == domain.BookingStatusPending &&
				filter.PlotID != nil && *filter.PlotID == "plot-1" &&
				filter.Page == 2 && filter.PageSize == 5
		})).Return([]domain.BookingDetail{*sampleDetail(domain.BookingStatusPending)}, int32(6), nil)

		rec := f.do(http.MethodGet, "/api/bookings?role=owner&status=pending&plotId=plot-1&page=2&pageSize=5", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, float64(6), body["total"])
		assert.Len(t, body["bookings"], 1)
	})

	t.Run("NoOptionalFilters", func(t *testing.T) {
		f := newAPIFixture(t)
		f.bookings.On("ListBookings", mock.Anything, repository.BookingFilter{UserID: "renter-1"}).
			Return([]domain.BookingDetail{}, int32(0), nil)

		rec := f.do(http.MethodGet, "/api/bookings", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []any{}, decodeBody(t, rec)["bookings"])
	})

	for _, query := range []string{"role=admin", "status=DONE", "page=-1", "pageSize=abc"} {
		t.Run("Rejects "+query, func(t *testing.T) {
			f := newAPIFixture(t)
			rec := f.do(http.MethodGet, "/api/bookings?"+query, "", true)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			f.bookings.AssertNotCalled(t, "ListBookings", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateBooking(t *testing.T) {
	f := newAPIFixture(t)
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)
	f.bookings.On("CreateBooking", mock.Anything, f.renter, "plot-1", start, end).
		Return(sampleDetail(domain.BookingStatusPending), nil)

	rec := f.do(http.MethodPost, "/api/bookings", `{"plotId":"plot-1","startDate":"2025-07-01","endDate":"2025-07-31"}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "PENDING", decodeBody(t, rec)["status"])

	rec = f.do(http.MethodPost, "/api/bookings", `{"plotId":"plot-1","startDate":"07/01/2025","endDate":"2025-07-31"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec)["error"], "startDate")

	rec = f.do(http.MethodPost, "/api/bookings", `not json`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPaymentRoutes(t *testing.T) {
	t.Run("Checkout", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("Checkout", mock.Anything, f.renter, "booking-1", "tokn_1").
			Return(&domain.PaymentIntent{ID: "pi-1", Amount: 10000, Currency: "usd", Status: domain.PaymentIntentStatusSucceeded}, nil)

		rec := f.do(http.MethodPost, "/api/bookings/booking-1/checkout", `{"cardToken":"tokn_1"}`, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "SUCCEEDED", decodeBody(t, rec)["status"])
	})

	t.Run("CheckoutAlreadyPaid", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("Checkout", mock.Anything, f.renter, "booking-1", "tokn_1").Return(nil, domain.ErrBookingAlreadyPaid)

		rec := f.do(http.MethodPost, "/api/bookings/booking-1/checkout", `{"cardToken":"tokn_1"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CheckoutWhileChargePending", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("Checkout", mock.Anything, f.renter, "booking-1", "tokn_1").Return(nil, domain.ErrPaymentInProgress)

		rec := f.do(http.MethodPost, "/api/bookings/booking-1/checkout", `{"cardToken":"tokn_1"}`, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, domain.ErrPaymentInProgress.Error(), decodeBody(t, rec)["error"])
	})

	t.Run("WebhookIsPublic", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("HandleWebhook", mock.Anything, "evnt_1").Return(nil)

		rec := f.do(http.MethodPost, "/api/webhooks/payments", `{"id":"evnt_1","key":"charge.complete"}`, false)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("WebhookUnverified", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("HandleWebhook", mock.Anything, "forged").Return(payment.ErrUnverifiedEvent)

		rec := f.do(http.MethodPost, "/api/webhooks/payments", `{"id":"forged"}`, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("WebhookWithoutID", func(t *testing.T) {
		f := newAPIFixture(t)
		rec := f.do(http.MethodPost, "/api/webhooks/payments", `{}`, false)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("RefreshPayout", func(t *testing.T) {
		f := newAPIFixture(t)
		f.payments.On("RefreshPayoutStatus", mock.Anything, f.renter).
			Return(&domain.User{ID: "renter-1", PayoutOnboarded: true}, nil)

		rec := f.do(http.MethodPost, "/api/payouts/refresh", "", true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, true, decodeBody(t, rec)["payoutOnboarded"])
	})
}

func TestInboxRoutes(t *testing.T) {
	f := newAPIFixture(t)
	f.notes.On("GetNotifications", mock.Anything, "renter-1", int32(1), int32(10)).
		Return([]domain.Notification{{ID: "n1", Title: "Booking approved"}}, int32(1), nil)
	f.notes.On("MarkAsRead", mock.Anything, "renter-1", "n1").Return(nil)
	f.notes.On("MarkAsRead", mock.Anything, "renter-1", "n2").Return(domain.ErrNotificationNotFound)
	f.activities.On("ListActivities", mock.Anything, "renter-1", int32(0), int32(0)).
		Return([]domain.UserActivity{{ID: "a1", Type: domain.ActivityTypeBookingConfirmed}}, int32(1), nil)

	rec := f.do(http.MethodGet, "/api/notifications?page=1&pageSize=10", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["notifications"], 1)

	rec = f.do(http.MethodPatch, "/api/notifications/n1/read", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = f.do(http.MethodPatch, "/api/notifications/n2/read", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodGet, "/api/activities", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(30), body["points"])
	assert.Len(t, body["activities"], 1)
}

func TestLogin(t *testing.T) {
	f := newAPIFixture(t)
	f.auth.On("Login", mock.Anything, "remy@example.com", "secret").Return("jwt-token", f.renter, nil)
	f.auth.On("Login", mock.Anything, "remy@example.com", "wrong").Return("", nil, domain.ErrInvalidCredentials)

	rec := f.do(http.MethodPost, "/api/auth/login", `{"email":"remy@example.com","password":"secret"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "jwt-token", body["accessToken"])

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"remy@example.com","password":"wrong"}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodPost, "/api/auth/login", `{"email":"remy@example.com"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler_DatabaseDown(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthHandler(fakePinger{err: errors.New("down")})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
