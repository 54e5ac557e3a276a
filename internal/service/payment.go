package service

import (
	"context"
	"errors"
	"time"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/repository"
)

type paymentService struct {
	tx          Transactor
	bookingRepo repository.BookingRepository
	paymentRepo repository.PaymentIntentRepository
	userRepo    repository.UserRepository
	gateway     payment.Gateway
	notifier    Notifier
	currency    string
	now         func() time.Time
}

func NewPaymentService(
	tx Transactor,
	bookingRepo repository.BookingRepository,
	paymentRepo repository.PaymentIntentRepository,
	userRepo repository.UserRepository,
	gateway payment.Gateway,
	notifier Notifier,
	currency string,
) PaymentService {
	return &paymentService{
		tx:          tx,
		bookingRepo: bookingRepo,
		paymentRepo: paymentRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		notifier:    notifier,
		currency:    currency,
		now:         time.Now,
	}
}

// Checkout charges the renter for an approved booking.
func (s *paymentService) Checkout(ctx context.Context, renter *domain.User, bookingID, cardToken string) (*domain.PaymentIntent, error) {
	logger.EnterMethod("paymentService.Checkout", "bookingID", bookingID, "renterID", renter.ID)

	d, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if d.Renter.ID != renter.ID {
		return nil, domain.NewPermissionError("only the renter can pay for this booking")
	}
	if d.Status != domain.BookingStatusApproved {
		return nil, domain.NewValidationError("only approved bookings can be paid, booking is %s", d.Status)
	}
	if d.IsPaid() {
		return nil, domain.ErrBookingAlreadyPaid
	}
	if pi := d.PaymentIntent; pi != nil {
		switch pi.Status {
		case domain.PaymentIntentStatusProcessing:
			return nil, domain.ErrPaymentInProgress
		case domain.PaymentIntentStatusSucceeded, domain.PaymentIntentStatusRefunded:
			return nil, domain.ErrBookingAlreadyPaid
		}
	}
	if cardToken == "" {
		return nil, domain.NewValidationError("cardToken is required")
	}

	charge, err := s.gateway.CreateCharge(ctx, payment.ChargeRequest{
		BookingID: d.ID,
		Amount:    d.TotalAmount,
		Currency:  s.currency,
		CardToken: cardToken,
	})
	if err != nil {
		logger.ExitMethodWithError("paymentService.Checkout", err, "bookingID", bookingID)
		return nil, err
	}

	intent := &domain.PaymentIntent{
		BookingID:  d.ID,
		Amount:     charge.Amount,
		Currency:   charge.Currency,
		Status:     intentStatusFor(charge.Status),
		ExternalID: charge.ID,
		Metadata:   map[string]any{domain.MetadataBookingID: d.ID},
	}
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.Create(ctx, intent); err != nil {
			return err
		}
		if intent.Status == domain.PaymentIntentStatusSucceeded {
			return s.bookingRepo.MarkPaid(ctx, d.ID, s.now().UTC())
		}
		return nil
	})
	if err != nil {
		logger.ErrorContext(ctx, "Charge created but not recorded, manual reconciliation required",
			"bookingID", d.ID, "chargeID", charge.ID, "error", err)
		return nil, err
	}

	if intent.Status == domain.PaymentIntentStatusSucceeded {
		s.notifyPaid(ctx, d, intent)
	}
	logger.ExitMethod("paymentService.Checkout", "bookingID", d.ID, "chargeID", charge.ID, "status", intent.Status)
	return intent, nil
}

// HandleWebhook re-reads the event from the gateway and settles the matching
// payment intent. Unknown charges and repeated events are no-ops.
func (s *paymentService) HandleWebhook(ctx context.Context, eventID string) error {
	ev, err := s.gateway.RetrieveChargeEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if ev.Key != payment.EventChargeComplete || ev.Charge == nil {
		logger.DebugContext(ctx, "Ignoring payment event", "eventID", eventID, "key", ev.Key)
		return nil
	}

	intent, err := s.paymentRepo.GetByExternalID(ctx, ev.Charge.ID)
	if errors.Is(err, domain.ErrPaymentNotFound) {
		logger.WarnContext(ctx, "Payment event for unknown charge", "eventID", eventID, "chargeID", ev.Charge.ID)
		return nil
	}
	if err != nil {
		return err
	}
	if intent.Status == domain.PaymentIntentStatusSucceeded || intent.Status == domain.PaymentIntentStatusRefunded {
		return nil
	}

	next := intentStatusFor(ev.Charge.Status)
	if next == intent.Status {
		return nil
	}

	// A charge that settles after the booking was closed is returned in full.
	var d *domain.BookingDetail
	if next == domain.PaymentIntentStatusSucceeded {
		if d, err = s.bookingRepo.GetDetail(ctx, intent.BookingID); err != nil {
			return err
		}
	}
	closed := d != nil && bookingClosed(d.Status)

	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.paymentRepo.UpdateStatus(ctx, intent.ID, next); err != nil {
			return err
		}
		if next == domain.PaymentIntentStatusSucceeded && !closed {
			return s.bookingRepo.MarkPaid(ctx, intent.BookingID, s.now().UTC())
		}
		return nil
	})
	if err != nil {
		return err
	}
	intent.Status = next
	logger.InfoContext(ctx, "Payment settled", "bookingID", intent.BookingID, "chargeID", ev.Charge.ID, "status", next)

	switch {
	case d == nil:
	case closed:
		s.refundClosedBooking(ctx, d, intent)
	default:
		s.notifyPaid(ctx, d, intent)
	}
	return nil
}

// refundClosedBooking returns the whole charge for a booking that was
// cancelled or rejected while its payment was still processing.
func (s *paymentService) refundClosedBooking(ctx context.Context, d *domain.BookingDetail, intent *domain.PaymentIntent) {
	logger.WarnContext(ctx, "Charge settled on closed booking, refunding in full",
		"bookingID", d.ID, "bookingStatus", d.Status, "chargeRef", intent.ExternalID, "amount", intent.Amount)

	refund, err := s.gateway.CreateRefund(ctx, intent.ExternalID, intent.Amount)
	if err != nil {
		logger.ErrorContext(ctx, "Refund failed, manual reconciliation required",
			"bookingID", d.ID, "paymentIntentID", intent.ID, "chargeRef", intent.ExternalID,
			"amount", intent.Amount, "error", err)
		return
	}

	patch := map[string]any{
		domain.MetadataRefundID:         refund.ID,
		domain.MetadataRefundAmount:     intent.Amount,
		domain.MetadataRefundPercentage: 100,
		domain.MetadataRefundedAt:       s.now().UTC().Format(time.RFC3339),
	}
	if err := s.paymentRepo.MarkRefunded(ctx, intent.ID, patch); err != nil {
		logger.ErrorContext(ctx, "Refund issued but payment intent not updated, manual reconciliation required",
			"bookingID", d.ID, "paymentIntentID", intent.ID, "refundID", refund.ID, "error", err)
	} else {
		intent.Status = domain.PaymentIntentStatusRefunded
	}

	out := s.notifier.Dispatch(ctx, notify.Event{
		Kind:             notify.KindRefundProcessed,
		Recipient:        recipientOf(d.Renter),
		BookingID:        d.ID,
		PlotTitle:        d.Plot.Title,
		Amount:           intent.Amount,
		RefundPercentage: 100,
		Currency:         intent.Currency,
	})
	if !out.OK() {
		logger.WarnContext(ctx, "Refund notification partially delivered", "bookingID", d.ID, "failed", len(out.Failed))
	}
}

func bookingClosed(status domain.BookingStatus) bool {
	return status == domain.BookingStatusCancelled || status == domain.BookingStatusRejected
}

// RefreshPayoutStatus re-reads the caller's payout recipient and stores
// whether it can receive transfers.
func (s *paymentService) RefreshPayoutStatus(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.PayoutAccountID == nil || *user.PayoutAccountID == "" {
		return nil, domain.ErrPayoutAccountMissing
	}
	ready, err := s.gateway.PayoutAccountReady(ctx, *user.PayoutAccountID)
	if err != nil {
		return nil, err
	}
	if ready != user.PayoutOnboarded {
		if err := s.userRepo.SetPayoutOnboarded(ctx, user.ID, ready); err != nil {
			return nil, err
		}
		logger.InfoContext(ctx, "Payout onboarding changed", "userID", user.ID, "onboarded", ready)
	}
	updated := *user
	updated.PayoutOnboarded = ready
	return &updated, nil
}

func (s *paymentService) notifyPaid(ctx context.Context, d *domain.BookingDetail, intent *domain.PaymentIntent) {
	out := s.notifier.Dispatch(ctx, notify.Event{
		Kind:      notify.KindPaymentReceived,
		Recipient: recipientOf(d.Owner),
		BookingID: d.ID,
		PlotTitle: d.Plot.Title,
		ActorName: d.Renter.Name,
		Amount:    intent.Amount,
		Currency:  intent.Currency,
	})
	if !out.OK() {
		logger.WarnContext(ctx, "Payment notification partially delivered", "bookingID", d.ID, "failed", len(out.Failed))
	}
}

func intentStatusFor(status payment.ChargeStatus) domain.PaymentIntentStatus {
	switch status {
	case payment.ChargeSuccessful:
		return domain.PaymentIntentStatusSucceeded
	case payment.ChargeFailed:
		return domain.PaymentIntentStatusFailed
	default:
		return domain.PaymentIntentStatusProcessing
	}
}
