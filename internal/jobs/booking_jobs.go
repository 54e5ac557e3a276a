package jobs

import (
	"context"
	"fmt"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
)

type transitionedBooking struct {
	ID       string
	PlotID   string
	RenterID string
}

// ActivateStartedBookings moves APPROVED bookings whose start date has arrived to ACTIVE
func (jr *JobRunner) ActivateStartedBookings() {
	jr.runWithRecovery("ActivateStartedBookings", func() {
		n, err := jr.activateStartedBookings(context.Background())
		if err != nil {
			logger.Error("Failed to activate started bookings", "error", err)
			return
		}
		logger.Info("Activated started bookings", "count", n)
	})
}

// CompleteFinishedBookings moves ACTIVE bookings whose end date has passed to COMPLETED
func (jr *JobRunner) CompleteFinishedBookings() {
	jr.runWithRecovery("CompleteFinishedBookings", func() {
		n, err := jr.completeFinishedBookings(context.Background())
		if err != nil {
			logger.Error("Failed to complete finished bookings", "error", err)
			return
		}
		logger.Info("Completed finished bookings", "count", n)
	})
}

func (jr *JobRunner) activateStartedBookings(ctx context.Context) (int, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    updated_at = $2
		WHERE status = $3
		  AND start_date <= $4
		RETURNING id, plot_id, renter_id
	`
	return jr.transition(ctx, query, domain.BookingStatusApproved, domain.BookingStatusActive)
}

func (jr *JobRunner) completeFinishedBookings(ctx context.Context) (int, error) {
	query := `
		UPDATE bookings
		SET status = $1,
		    updated_at = $2
		WHERE status = $3
		  AND end_date < $4
		RETURNING id, plot_id, renter_id
	`
	return jr.transition(ctx, query, domain.BookingStatusActive, domain.BookingStatusCompleted)
}

// transition runs one conditional bulk status update and logs every booking it moved.
func (jr *JobRunner) transition(ctx context.Context, query string, from, to domain.BookingStatus) (int, error) {
	if !domain.CanTransition(from, to) {
		return 0, &domain.TransitionError{From: from, To: to}
	}

	logger.DatabaseCall("UPDATE", "bookings", "from", from, "to", to)
	rows, err := jr.db.QueryContext(ctx, query, to, jr.now().UTC(), from, jr.today())
	if err != nil {
		return 0, fmt.Errorf("failed to move bookings to %s: %w", to, err)
	}
	defer rows.Close()

	var moved []transitionedBooking
	for rows.Next() {
		var b transitionedBooking
		if err := rows.Scan(&b.ID, &b.PlotID, &b.RenterID); err != nil {
			logger.Error("Failed to scan transitioned booking", "error", err)
			continue
		}
		moved = append(moved, b)
	}
	if err := rows.Err(); err != nil {
		return len(moved), fmt.Errorf("error iterating transitioned bookings: %w", err)
	}
	logger.DatabaseResult("UPDATE", int64(len(moved)), nil, "table", "bookings")

	for _, b := range moved {
		logger.Debug("Booking status advanced",
			"booking_id", b.ID,
			"plot_id", b.PlotID,
			"renter_id", b.RenterID,
			"status", to)
	}
	return len(moved), nil
}
