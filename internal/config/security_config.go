package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// Route names registered on the HTTP router.
const (
	RouteLogin             = "auth.login"
	RoutePaymentWebhook    = "webhooks.payments"
	RouteHealth            = "health"
	RouteCreateBooking     = "bookings.create"
	RouteListBookings      = "bookings.list"
	RouteGetBooking        = "bookings.get"
	RouteUpdateBooking     = "bookings.update_status"
	RouteCheckoutBooking   = "bookings.checkout"
	RouteRefreshPayout     = "payouts.refresh"
	RouteListNotifications = "notifications.list"
	RouteMarkNotification  = "notifications.mark_read"
	RouteListActivities    = "activities.list"
)

// EndpointSecurityConfig maps route names to their required security level
var EndpointSecurityConfig = map[string]SecurityLevel{
	// Public
	RouteLogin:          SecurityPublic,
	RoutePaymentWebhook: SecurityPublic, // verified against the gateway instead
	RouteHealth:         SecurityPublic,

	// Bookings
	RouteCreateBooking:   SecurityAccess,
	RouteListBookings:    SecurityAccess,
	RouteGetBooking:      SecurityAccess,
	RouteUpdateBooking:   SecurityAccess,
	RouteCheckoutBooking: SecurityAccess,

	// Payouts
	RouteRefreshPayout: SecurityAccess,

	// Inbox & activity
	RouteListNotifications: SecurityAccess,
	RouteMarkNotification:  SecurityAccess,
	RouteListActivities:    SecurityAccess,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := EndpointSecurityConfig[route]; exists {
		return level
	}
	// Default to highest security for unknown endpoints
	return SecurityAccess
}
