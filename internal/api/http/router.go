package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"growshare-backend/internal/config"
)

// Handlers groups everything the router serves.
type Handlers struct {
	Auth    *AuthHandler
	Booking *BookingHandler
	Payment *PaymentHandler
	Inbox   *InboxHandler
	Health  http.HandlerFunc
}

// NewRouter registers every API route under its security route name.
func NewRouter(h Handlers, auth *AuthMiddleware) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, auth.Handler)

	router.HandleFunc("/healthz", h.Health).Methods(http.MethodGet).Name(config.RouteHealth)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost).Name(config.RouteLogin)
	api.HandleFunc("/webhooks/payments", h.Payment.Webhook).Methods(http.MethodPost).Name(config.RoutePaymentWebhook)

	api.HandleFunc("/bookings", h.Booking.Create).Methods(http.MethodPost).Name(config.RouteCreateBooking)
	api.HandleFunc("/bookings", h.Booking.List).Methods(http.MethodGet).Name(config.RouteListBookings)
	api.HandleFunc("/bookings/{id}", h.Booking.Get).Methods(http.MethodGet).Name(config.RouteGetBooking)
	api.HandleFunc("/bookings/{id}", h.Booking.UpdateStatus).Methods(http.MethodPatch).Name(config.RouteUpdateBooking)
	api.HandleFunc("/bookings/{id}/checkout", h.Payment.Checkout).Methods(http.MethodPost).Name(config.RouteCheckoutBooking)

	api.HandleFunc("/payouts/refresh", h.Payment.RefreshPayout).Methods(http.MethodPost).Name(config.RouteRefreshPayout)

	api.HandleFunc("/notifications", h.Inbox.ListNotifications).Methods(http.MethodGet).Name(config.RouteListNotifications)
	api.HandleFunc("/notifications/{id}/read", h.Inbox.MarkNotificationRead).Methods(http.MethodPatch).Name(config.RouteMarkNotification)
	api.HandleFunc("/activities", h.Inbox.ListActivities).Methods(http.MethodGet).Name(config.RouteListActivities)

	return router
}
