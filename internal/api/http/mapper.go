package http

import (
	"time"

	"growshare-backend/internal/domain"
)

const dateLayout = "2006-01-02"

type plotSummaryResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	OwnerID string `json:"ownerId"`
}

type partyResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

type paymentIntentResponse struct {
	ID        string         `json:"id"`
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Status    string         `json:"status"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type bookingResponse struct {
	ID            string                 `json:"id"`
	PlotID        string                 `json:"plotId"`
	RenterID      string                 `json:"renterId"`
	StartDate     string                 `json:"startDate"`
	EndDate       string                 `json:"endDate"`
	Status        string                 `json:"status"`
	TotalAmount   int64                  `json:"totalAmount"`
	PaidAt        *time.Time             `json:"paidAt,omitempty"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
	Plot          plotSummaryResponse    `json:"plot"`
	Owner         partyResponse          `json:"owner"`
	Renter        partyResponse          `json:"renter"`
	PaymentIntent *paymentIntentResponse `json:"paymentIntent,omitempty"`
}

type refundResponse struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	Percentage int    `json:"percentage"`
}

type statusChangeResponse struct {
	bookingResponse
	Refund *refundResponse `json:"refund,omitempty"`
}

type userResponse struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	Points          int32  `json:"points"`
	PayoutOnboarded bool   `json:"payoutOnboarded"`
}

type notificationResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"isRead"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
}

type activityResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Points      int32     `json:"points"`
	CreatedAt   time.Time `json:"createdAt"`
}

func mapBooking(d *domain.BookingDetail) bookingResponse {
	resp := bookingResponse{
		ID:          d.ID,
		PlotID:      d.PlotID,
		RenterID:    d.RenterID,
		StartDate:   d.StartDate.Format(dateLayout),
		EndDate:     d.EndDate.Format(dateLayout),
		Status:      string(d.Status),
		TotalAmount: d.TotalAmount,
		PaidAt:      d.PaidAt,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		Plot: plotSummaryResponse{
			ID:      d.Plot.ID,
			Title:   d.Plot.Title,
			OwnerID: d.Plot.OwnerID,
		},
		Owner:  mapParty(d.Owner),
		Renter: mapParty(d.Renter),
	}
	if d.PaymentIntent != nil {
		pi := mapPaymentIntent(d.PaymentIntent)
		resp.PaymentIntent = &pi
	}
	return resp
}

func mapParty(u domain.UserSummary) partyResponse {
	return partyResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone}
}

func mapPaymentIntent(pi *domain.PaymentIntent) paymentIntentResponse {
	return paymentIntentResponse{
		ID:        pi.ID,
		Amount:    pi.Amount,
		Currency:  pi.Currency,
		Status:    string(pi.Status),
		Metadata:  pi.Metadata,
		UpdatedAt: pi.UpdatedAt,
	}
}

func mapStatusChange(d *domain.BookingDetail, refund *domain.RefundInfo) statusChangeResponse {
	resp := statusChangeResponse{bookingResponse: mapBooking(d)}
	if refund != nil {
		resp.Refund = &refundResponse{ID: refund.RefundID, Amount: refund.Amount, Percentage: refund.Percentage}
	}
	return resp
}

func mapUser(u *domain.User) userResponse {
	return userResponse{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		Points:          u.Points,
		PayoutOnboarded: u.PayoutOnboarded,
	}
}

func mapNotifications(notes []domain.Notification) []notificationResponse {
	out := make([]notificationResponse, 0, len(notes))
	for _, n := range notes {
		out = append(out, notificationResponse{
			ID:         n.ID,
			Title:      n.Title,
			Message:    n.Message,
			IsRead:     n.IsRead,
			Attributes: n.Attributes,
			CreatedAt:  n.CreatedAt,
		})
	}
	return out
}

func mapActivities(acts []domain.UserActivity) []activityResponse {
	out := make([]activityResponse, 0, len(acts))
	for _, a := range acts {
		out = append(out, activityResponse{
			ID:          a.ID,
			Type:        string(a.Type),
			Title:       a.Title,
			Description: a.Description,
			Points:      a.Points,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}
