package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/observability"
)

// refundEligible reports whether a cancelled booking carries a captured payment.
func refundEligible(d *domain.BookingDetail) bool {
	return d.IsPaid() && d.PaymentIntent != nil && d.PaymentIntent.Status == domain.PaymentIntentStatusSucceeded
}

// processRefund returns money to the renter of a cancelled booking according
// to the lead-time tiers. It never fails the cancellation: gateway errors are
// logged for reconciliation and nil is returned.
func (s *bookingService) processRefund(ctx context.Context, d *domain.BookingDetail) *domain.RefundInfo {
	if !refundEligible(d) {
		return nil
	}

	now := s.now()
	pct := domain.RefundPercentage(d.StartDate, now)
	if pct == 0 {
		logger.InfoContext(ctx, "Cancellation too close to start for a refund",
			"bookingID", d.ID, "daysUntilStart", domain.DaysUntilStart(d.StartDate, now))
		return nil
	}

	intent := d.PaymentIntent
	amount := domain.RefundAmount(intent.Amount, pct)

	ctx, span := observability.Tracer().Start(ctx, "BookingService.processRefund",
		trace.WithAttributes(
			attribute.String("booking.id", d.ID),
			attribute.Int64("refund.amount", amount),
			attribute.Int("refund.percentage", pct),
		))
	refund, err := s.gateway.CreateRefund(ctx, intent.ExternalID, amount)
	observability.EndSpan(span, err)
	if err != nil {
		logger.ErrorContext(ctx, "Refund failed, manual reconciliation required",
			"bookingID", d.ID, "paymentIntentID", intent.ID, "chargeRef", intent.ExternalID,
			"amount", amount, "percentage", pct, "error", err)
		return nil
	}

	info := &domain.RefundInfo{RefundID: refund.ID, Amount: amount, Percentage: pct}
	patch := map[string]any{
		domain.MetadataRefundID:         refund.ID,
		domain.MetadataRefundAmount:     amount,
		domain.MetadataRefundPercentage: pct,
		domain.MetadataRefundedAt:       now.UTC().Format(time.RFC3339),
	}
	if err := s.paymentRepo.MarkRefunded(ctx, intent.ID, patch); err != nil {
		logger.ErrorContext(ctx, "Refund issued but payment intent not updated, manual reconciliation required",
			"bookingID", d.ID, "paymentIntentID", intent.ID, "refundID", refund.ID, "error", err)
	} else {
		intent.Status = domain.PaymentIntentStatusRefunded
		intent.Metadata = domain.MergeMetadata(intent.Metadata, patch)
	}

	logger.InfoContext(ctx, "Refund issued", "bookingID", d.ID, "refundID", refund.ID, "amount", amount, "percentage", pct)

	s.notify(ctx, notify.Event{
		Kind:             notify.KindRefundProcessed,
		Recipient:        recipientOf(d.Renter),
		BookingID:        d.ID,
		PlotTitle:        d.Plot.Title,
		Amount:           amount,
		RefundPercentage: pct,
		Currency:         intent.Currency,
	})
	return info
}
