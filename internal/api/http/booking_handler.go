package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository"
	"growshare-backend/internal/service"
)

type BookingHandler struct {
	bookingSvc service.BookingService
}

func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

type createBookingRequest struct {
	PlotID    string `json:"plotId"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

type bookingListResponse struct {
	Bookings []bookingResponse `json:"bookings"`
	Total    int32             `json:"total"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.PlotID == "" {
		writeError(ctx, w, domain.NewValidationError("plotId is required"))
		return
	}
	start, err := parseDate("startDate", req.StartDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	end, err := parseDate("endDate", req.EndDate)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	d, err := h.bookingSvc.CreateBooking(ctx, currentUser(r), req.PlotID, start, end)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, mapBooking(d))
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := repository.BookingFilter{UserID: currentUser(r).ID}
	switch role := repository.BookingRole(q.Get("role")); role {
	case "", repository.BookingRoleRenter, repository.BookingRoleOwner:
		filter.Role = role
	default:
		writeError(ctx, w, domain.NewValidationError("role must be renter or owner"))
		return
	}
	if s := q.Get("status"); s != "" {
		status := domain.BookingStatus(strings.ToUpper(s))
		if !status.IsValid() {
			writeError(ctx, w, domain.NewValidationError("unknown booking status %q", s))
			return
		}
		filter.Status = &status
	}
	if plotID := q.Get("plotId"); plotID != "" {
		filter.PlotID = &plotID
	}
	page, pageSize, err := pageParams(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	filter.Page, filter.PageSize = page, pageSize

	bookings, total, err := h.bookingSvc.ListBookings(ctx, filter)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	resp := bookingListResponse{Bookings: make([]bookingResponse, 0, len(bookings)), Total: total}
	for i := range bookings {
		resp.Bookings = append(resp.Bookings, mapBooking(&bookings[i]))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.bookingSvc.GetBooking(ctx, currentUser(r), mux.Vars(r)["id"])
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBooking(d))
}

// UpdateStatus handles PATCH /api/bookings/{id}.
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req updateStatusRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeMessage(w, http.StatusBadRequest, msgInvalidStatus)
		return
	}

	change, err := h.bookingSvc.UpdateBookingStatus(ctx, currentUser(r), mux.Vars(r)["id"], domain.BookingStatus(req.Status))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapStatusChange(change.Booking, change.Refund))
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, domain.NewValidationError("%s is required", field)
	}
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil {
		return time.Time{}, domain.NewValidationError("%s must be formatted as YYYY-MM-DD", field)
	}
	return t, nil
}

func pageParams(r *http.Request) (int32, int32, error) {
	q := r.URL.Query()
	page, err := queryInt32(q.Get("page"), "page")
	if err != nil {
		return 0, 0, err
	}
	pageSize, err := queryInt32(q.Get("pageSize"), "pageSize")
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

func queryInt32(value, field string) (int32, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(value, 10, 32)
	if err != nil || n < 0 {
		return 0, domain.NewValidationError("%s must be a non-negative integer", field)
	}
	return int32(n), nil
}
