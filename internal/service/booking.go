package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/notify"
	"growshare-backend/internal/observability"
	"growshare-backend/internal/payment"
	"growshare-backend/internal/repository"
	"growshare-backend/internal/utils"
)

type bookingService struct {
	tx           Transactor
	bookingRepo  repository.BookingRepository
	plotRepo     repository.PlotRepository
	userRepo     repository.UserRepository
	paymentRepo  repository.PaymentIntentRepository
	activityRepo repository.ActivityRepository
	gateway      payment.Gateway
	notifier     Notifier
	now          func() time.Time
}

func NewBookingService(
	tx Transactor,
	bookingRepo repository.BookingRepository,
	plotRepo repository.PlotRepository,
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentIntentRepository,
	activityRepo repository.ActivityRepository,
	gateway payment.Gateway,
	notifier Notifier,
) BookingService {
	return &bookingService{
		tx:           tx,
		bookingRepo:  bookingRepo,
		plotRepo:     plotRepo,
		userRepo:     userRepo,
		paymentRepo:  paymentRepo,
		activityRepo: activityRepo,
		gateway:      gateway,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renter *domain.User, plotID string, start, end time.Time) (*domain.BookingDetail, error) {
	logger.EnterMethod("bookingService.CreateBooking", "renterID", renter.ID, "plotID", plotID)

	plot, err := s.plotRepo.GetByID(ctx, plotID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err, "plotID", plotID)
		return nil, err
	}
	if plot.OwnerID == renter.ID {
		return nil, domain.NewValidationError("you cannot book your own plot")
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("end date must be on or after start date")
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if start.Before(today) {
		return nil, domain.NewValidationError("start date cannot be in the past")
	}

	total, err := utils.CalculateBookingCost(start, end, plot)
	if err != nil {
		return nil, domain.NewValidationError("%s", err.Error())
	}

	booking := &domain.Booking{
		PlotID:      plot.ID,
		RenterID:    renter.ID,
		StartDate:   start,
		EndDate:     end,
		Status:      domain.BookingStatusPending,
		TotalAmount: total,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		logger.ExitMethodWithError("bookingService.CreateBooking", err)
		return nil, err
	}

	detail, err := s.bookingRepo.GetDetail(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	s.recordActivity(ctx, &domain.UserActivity{
		UserID:      renter.ID,
		Type:        domain.ActivityTypeBookingRequested,
		Title:       "Booking requested",
		Description: "You requested to book " + plot.Title + ".",
	})
	s.notify(ctx, notify.Event{
		Kind:      notify.KindBookingRequested,
		Recipient: recipientOf(detail.Owner),
		BookingID: detail.ID,
		PlotTitle: detail.Plot.Title,
		ActorName: renter.Name,
	})

	logger.ExitMethod("bookingService.CreateBooking", "bookingID", detail.ID, "total", total)
	return detail, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor *domain.User, bookingID string) (*domain.BookingDetail, error) {
	detail, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !detail.IsParty(actor.ID) {
		return nil, domain.NewPermissionError("you do not have permission to view this booking")
	}
	return detail, nil
}

func (s *bookingService) ListBookings(ctx context.Context, filter repository.BookingFilter) ([]domain.BookingDetail, int32, error) {
	if filter.Role != repository.BookingRoleOwner {
		filter.Role = repository.BookingRoleRenter
	}
	filter.Page, filter.PageSize, _ = normalizePage(filter.Page, filter.PageSize)
	return s.bookingRepo.List(ctx, filter)
}

// UpdateBookingStatus applies a party-requested status change and then runs
// the best-effort side effects for the new status.
func (s *bookingService) UpdateBookingStatus(ctx context.Context, actor *domain.User, bookingID string, target domain.BookingStatus) (result *StatusChange, err error) {
	ctx, span := observability.Tracer().Start(ctx, "BookingService.UpdateBookingStatus",
		trace.WithAttributes(
			attribute.String("booking.id", bookingID),
			attribute.String("booking.target_status", string(target)),
		))
	defer func() { observability.EndSpan(span, err) }()

	logger.EnterMethod("bookingService.UpdateBookingStatus", "bookingID", bookingID, "actorID", actor.ID, "target", target)

	if !target.IsRequestTarget() {
		return nil, domain.ErrInvalidStatus
	}

	current, err := s.bookingRepo.GetDetail(ctx, bookingID)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", bookingID)
		return nil, err
	}
	span.SetAttributes(attribute.String("booking.current_status", string(current.Status)))

	if err := domain.ValidateTransition(current.Status, target); err != nil {
		return nil, err
	}
	if err := domain.AuthorizeStatusChange(current, actor.ID, target); err != nil {
		return nil, err
	}
	if target == domain.BookingStatusApproved && !current.Owner.PayoutOnboarded {
		return nil, domain.ErrPayoutSetupRequired
	}

	var updated *domain.BookingDetail
	err = s.tx.Do(ctx, func(ctx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(ctx, bookingID, current.Status, target); err != nil {
			return err
		}
		d, err := s.bookingRepo.GetDetail(ctx, bookingID)
		if err != nil {
			return err
		}
		updated = d
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			logger.Warn("Booking status changed concurrently", "bookingID", bookingID, "expected", current.Status, "target", target)
		}
		logger.ExitMethodWithError("bookingService.UpdateBookingStatus", err, "bookingID", bookingID)
		return nil, err
	}

	logger.InfoContext(ctx, "Booking status updated", "bookingID", bookingID, "from", current.Status, "to", target, "actorID", actor.ID)

	result = &StatusChange{Booking: updated}
	switch target {
	case domain.BookingStatusApproved:
		s.afterApproved(ctx, updated)
	case domain.BookingStatusRejected:
		s.afterRejected(ctx, updated)
	case domain.BookingStatusCancelled:
		result.Refund = s.processRefund(ctx, updated)
		s.afterCancelled(ctx, updated, actor, result.Refund)
	}

	logger.ExitMethod("bookingService.UpdateBookingStatus", "bookingID", bookingID, "status", updated.Status)
	return result, nil
}
