package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/notify"
)

func (s *bookingService) afterApproved(ctx context.Context, d *domain.BookingDetail) {
	// Point award and owner activity are independent writes.
	var g errgroup.Group
	g.Go(func() error {
		if err := s.userRepo.IncrementPoints(ctx, d.Owner.ID, domain.ApprovalPoints); err != nil {
			logger.ErrorContext(ctx, "Failed to award approval points", "bookingID", d.ID, "ownerID", d.Owner.ID, "error", err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		a := &domain.UserActivity{
			UserID:      d.Owner.ID,
			Type:        domain.ActivityTypeBookingApproved,
			Title:       "Booking approved",
			Description: fmt.Sprintf("You approved %s's booking for %s.", d.Renter.Name, d.Plot.Title),
			Points:      domain.ApprovalPoints,
		}
		if err := s.activityRepo.Create(ctx, a); err != nil {
			logger.ErrorContext(ctx, "Failed to record activity", "userID", a.UserID, "type", a.Type, "error", err)
			return err
		}
		return nil
	})
	_ = g.Wait()

	s.recordActivity(ctx, &domain.UserActivity{
		UserID:      d.Renter.ID,
		Type:        domain.ActivityTypeBookingConfirmed,
		Title:       "Booking confirmed",
		Description: fmt.Sprintf("Your booking for %s was approved.", d.Plot.Title),
	})
	s.notify(ctx, notify.Event{
		Kind:      notify.KindBookingApproved,
		Recipient: recipientOf(d.Renter),
		BookingID: d.ID,
		PlotTitle: d.Plot.Title,
		ActorName: d.Owner.Name,
	})
}

func (s *bookingService) afterRejected(ctx context.Context, d *domain.BookingDetail) {
	s.recordActivity(ctx, &domain.UserActivity{
		UserID:      d.Renter.ID,
		Type:        domain.ActivityTypeBookingRejected,
		Title:       "Booking declined",
		Description: fmt.Sprintf("Your booking request for %s was declined.", d.Plot.Title),
	})
	s.notify(ctx, notify.Event{
		Kind:      notify.KindBookingRejected,
		Recipient: recipientOf(d.Renter),
		BookingID: d.ID,
		PlotTitle: d.Plot.Title,
		ActorName: d.Owner.Name,
	})
}

func (s *bookingService) afterCancelled(ctx context.Context, d *domain.BookingDetail, actor *domain.User, refund *domain.RefundInfo) {
	canceller := d.Party(actor.ID)
	other := d.OtherParty(actor.ID)
	currency := ""
	if d.PaymentIntent != nil {
		currency = d.PaymentIntent.Currency
	}

	s.recordActivity(ctx, &domain.UserActivity{
		UserID:      canceller.ID,
		Type:        domain.ActivityTypeBookingCancelled,
		Title:       "Booking cancelled",
		Description: cancellerDescription(d, canceller.ID, refund, currency),
	})
	s.recordActivity(ctx, &domain.UserActivity{
		UserID:      other.ID,
		Type:        domain.ActivityTypeBookingCancelled,
		Title:       "Booking cancelled",
		Description: otherPartyDescription(d, canceller.Name, refund, currency),
	})
	s.notify(ctx, notify.Event{
		Kind:      notify.KindBookingCancelled,
		Recipient: recipientOf(other),
		BookingID: d.ID,
		PlotTitle: d.Plot.Title,
		ActorName: canceller.Name,
	})
}

func cancellerDescription(d *domain.BookingDetail, cancellerID string, refund *domain.RefundInfo, currency string) string {
	if refund == nil {
		return fmt.Sprintf("You cancelled the booking for %s.", d.Plot.Title)
	}
	amount := notify.FormatAmount(refund.Amount, currency)
	if cancellerID == d.Renter.ID {
		return fmt.Sprintf("You cancelled your booking for %s and received a %d%% refund (%s).", d.Plot.Title, refund.Percentage, amount)
	}
	return fmt.Sprintf("You cancelled the booking for %s. The renter was refunded %d%% (%s).", d.Plot.Title, refund.Percentage, amount)
}

func otherPartyDescription(d *domain.BookingDetail, cancellerName string, refund *domain.RefundInfo, currency string) string {
	if refund == nil {
		return fmt.Sprintf("The booking for %s was cancelled by %s.", d.Plot.Title, cancellerName)
	}
	return fmt.Sprintf("The booking for %s was cancelled by %s. Refund processed: %d%% (%s).",
		d.Plot.Title, cancellerName, refund.Percentage, notify.FormatAmount(refund.Amount, currency))
}

// recordActivity writes a history entry; failures are only logged.
func (s *bookingService) recordActivity(ctx context.Context, a *domain.UserActivity) {
	if err := s.activityRepo.Create(ctx, a); err != nil {
		logger.ErrorContext(ctx, "Failed to record activity", "userID", a.UserID, "type", a.Type, "error", err)
	}
}

func (s *bookingService) notify(ctx context.Context, e notify.Event) {
	out := s.notifier.Dispatch(ctx, e)
	if !out.OK() {
		logger.WarnContext(ctx, "Notification partially delivered",
			"kind", e.Kind, "userID", e.Recipient.UserID, "failed", len(out.Failed), "delivered", out.Delivered)
	}
}
