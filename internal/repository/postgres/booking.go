package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/google/uuid"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
)

type bookingRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewBookingRepository(db *sql.DB, getter *trmsql.CtxGetter) repository.BookingRepository {
	return &bookingRepository{db: db, getter: getter}
}

// bookingDetailSelect joins the plot, both parties and the latest payment intent.
const bookingDetailSelect = `SELECT b.id, b.plot_id, b.renter_id, b.start_date, b.end_date, b.status, b.total_amount, b.paid_at, b.created_at, b.updated_at,
       p.title, p.owner_id,
       o.name, o.email, COALESCE(o.phone, ''), o.payout_onboarded,
       r.name, r.email, COALESCE(r.phone, ''),
       pi.id, pi.amount, pi.currency, pi.status, pi.external_id, pi.metadata, pi.created_at, pi.updated_at
FROM bookings b
JOIN plots p ON p.id = b.plot_id
JOIN users o ON o.id = p.owner_id
JOIN users r ON r.id = b.renter_id
LEFT JOIN LATERAL (
    SELECT id, amount, currency, status, external_id, metadata, created_at, updated_at
    FROM payment_intents WHERE booking_id = b.id ORDER BY created_at DESC LIMIT 1
) pi ON TRUE`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBookingDetail(row rowScanner) (*domain.BookingDetail, error) {
	d := &domain.BookingDetail{}
	var paidAt sql.NullTime
	var piID, piCurrency, piStatus, piExternalID sql.NullString
	var piAmount sql.NullInt64
	var piMetadata []byte
	var piCreatedAt, piUpdatedAt sql.NullTime

	err := row.Scan(
		&d.ID, &d.PlotID, &d.RenterID, &d.StartDate, &d.EndDate, &d.Status, &d.TotalAmount, &paidAt, &d.CreatedAt, &d.UpdatedAt,
		&d.Plot.Title, &d.Plot.OwnerID,
		&d.Owner.Name, &d.Owner.Email, &d.Owner.Phone, &d.Owner.PayoutOnboarded,
		&d.Renter.Name, &d.Renter.Email, &d.Renter.Phone,
		&piID, &piAmount, &piCurrency, &piStatus, &piExternalID, &piMetadata, &piCreatedAt, &piUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.Plot.ID = d.PlotID
	d.Owner.ID = d.Plot.OwnerID
	d.Renter.ID = d.RenterID
	if paidAt.Valid {
		t := paidAt.Time
		d.PaidAt = &t
	}
	if piID.Valid {
		pi := &domain.PaymentIntent{
			ID:         piID.String,
			BookingID:  d.ID,
			Amount:     piAmount.Int64,
			Currency:   piCurrency.String,
			Status:     domain.PaymentIntentStatus(piStatus.String),
			ExternalID: piExternalID.String,
			CreatedAt:  piCreatedAt.Time,
			UpdatedAt:  piUpdatedAt.Time,
		}
		if len(piMetadata) > 0 {
			if err := json.Unmarshal(piMetadata, &pi.Metadata); err != nil {
				return nil, fmt.Errorf("decode payment metadata: %w", err)
			}
		}
		d.PaymentIntent = pi
	}
	return d, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	logger.EnterMethod("bookingRepository.Create", "plotID", b.PlotID, "renterID", b.RenterID)
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now

	query := `INSERT INTO bookings (id, plot_id, renter_id, start_date, end_date, status, total_amount, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("INSERT", "bookings", "bookingID", b.ID)
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.PlotID, b.RenterID, b.StartDate, b.EndDate, b.Status, b.TotalAmount, b.CreatedAt, b.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	if err != nil {
		logger.ExitMethodWithError("bookingRepository.Create", err)
		return fmt.Errorf("insert booking: %w", err)
	}
	logger.ExitMethod("bookingRepository.Create", "bookingID", b.ID)
	return nil
}

func (r *bookingRepository) GetDetail(ctx context.Context, id string) (*domain.BookingDetail, error) {
	row := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, bookingDetailSelect+` WHERE b.id = $1`, id)
	d, err := scanBookingDetail(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select booking detail: %w", err)
	}
	return d, nil
}

func (r *bookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.BookingDetail, int32, error) {
	var where []string
	var args []any
	argIdx := 1

	if f.Role == repository.BookingRoleOwner {
		where = append(where, fmt.Sprintf("p.owner_id = $%d", argIdx))
	} else {
		where = append(where, fmt.Sprintf("b.renter_id = $%d", argIdx))
	}
	args = append(args, f.UserID)
	argIdx++

	if f.Status != nil {
		where = append(where, fmt.Sprintf("b.status = $%d", argIdx))
		args = append(args, string(*f.Status))
		argIdx++
	}
	if f.PlotID != nil {
		where = append(where, fmt.Sprintf("b.plot_id = $%d", argIdx))
		args = append(args, *f.PlotID)
		argIdx++
	}
	whereSQL := " WHERE " + strings.Join(where, " AND ")

	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	var count int32
	countSQL := `SELECT count(*) FROM bookings b JOIN plots p ON p.id = b.plot_id` + whereSQL
	if err := tr.QueryRowContext(ctx, countSQL, args...).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	page, pageSize := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * pageSize
	listSQL := bookingDetailSelect + whereSQL + fmt.Sprintf(" ORDER BY b.created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := tr.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []domain.BookingDetail
	for rows.Next() {
		d, err := scanBookingDetail(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", id, "from", from, "to", to)
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "bookingID", id)
		return fmt.Errorf("update booking status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	logger.DatabaseResult("UPDATE", n, nil, "bookingID", id)
	if n == 0 {
		return domain.ErrStatusConflict
	}
	return nil
}

func (r *bookingRepository) MarkPaid(ctx context.Context, id string, paidAt time.Time) error {
	query := `UPDATE bookings SET paid_at = $1, updated_at = $1 WHERE id = $2 AND paid_at IS NULL`
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, paidAt, id)
	if err != nil {
		return fmt.Errorf("mark booking paid: %w", err)
	}
	return nil
}
