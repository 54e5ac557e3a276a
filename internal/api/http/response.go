package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
)

type errorResponse struct {
	Error                string `json:"error"`
	CurrentStatus        string `json:"currentStatus,omitempty"`
	TargetStatus         string `json:"targetStatus,omitempty"`
	RequiresConnectSetup bool   `json:"requiresConnectSetup,omitempty"`
}

const (
	msgInvalidStatus = "status must be one of APPROVED, REJECTED, CANCELLED"
	msgUnauthorized  = "unauthorized"
	msgInternal      = "internal server error"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors to HTTP responses. Anything unrecognised is
// logged and reported as a generic 500.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		transitionErr *domain.TransitionError
		permissionErr *domain.PermissionError
	)

	switch {
	case errors.As(err, &validationErr):
		writeMessage(w, http.StatusBadRequest, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidStatus):
		writeMessage(w, http.StatusBadRequest, msgInvalidStatus)
	case errors.As(err, &transitionErr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:         transitionErr.Error(),
			CurrentStatus: string(transitionErr.From),
			TargetStatus:  string(transitionErr.To),
		})
	case errors.Is(err, domain.ErrPayoutSetupRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), RequiresConnectSetup: true})
	case errors.Is(err, domain.ErrStatusConflict),
		errors.Is(err, domain.ErrBookingAlreadyPaid),
		errors.Is(err, domain.ErrPaymentInProgress),
		errors.Is(err, domain.ErrPayoutAccountMissing):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &permissionErr):
		writeMessage(w, http.StatusForbidden, permissionErr.Message)
	case errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrPlotNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrPaymentNotFound),
		errors.Is(err, domain.ErrNotificationNotFound):
		writeMessage(w, http.StatusNotFound, err.Error())
	default:
		logger.ErrorContext(ctx, "Request failed", "error", err)
		writeMessage(w, http.StatusInternalServerError, msgInternal)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return nil
}
