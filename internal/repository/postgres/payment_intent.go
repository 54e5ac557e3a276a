package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/google/uuid"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
)

type paymentIntentRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewPaymentIntentRepository(db *sql.DB, getter *trmsql.CtxGetter) repository.PaymentIntentRepository {
	return &paymentIntentRepository{db: db, getter: getter}
}

func (r *paymentIntentRepository) Create(ctx context.Context, pi *domain.PaymentIntent) error {
	if pi.ID == "" {
		pi.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	pi.CreatedAt = now
	pi.UpdatedAt = now

	meta, err := json.Marshal(pi.Metadata)
	if err != nil {
		return fmt.Errorf("encode payment metadata: %w", err)
	}

	query := `INSERT INTO payment_intents (id, booking_id, amount, currency, status, external_id, metadata, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	logger.DatabaseCall("INSERT", "payment_intents", "bookingID", pi.BookingID, "externalID", pi.ExternalID)
	_, err = r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		pi.ID, pi.BookingID, pi.Amount, pi.Currency, pi.Status, pi.ExternalID, meta, pi.CreatedAt, pi.UpdatedAt)
	logger.DatabaseResult("INSERT", 1, err, "paymentIntentID", pi.ID)
	if err != nil {
		return fmt.Errorf("insert payment intent: %w", err)
	}
	return nil
}

func (r *paymentIntentRepository) GetByExternalID(ctx context.Context, externalID string) (*domain.PaymentIntent, error) {
	query := `SELECT id, booking_id, amount, currency, status, external_id, metadata, created_at, updated_at
	          FROM payment_intents WHERE external_id = $1`
	pi := &domain.PaymentIntent{}
	var meta []byte
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, externalID).Scan(
		&pi.ID, &pi.BookingID, &pi.Amount, &pi.Currency, &pi.Status, &pi.ExternalID, &meta, &pi.CreatedAt, &pi.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPaymentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select payment intent: %w", err)
	}
	if len(meta) > 0 {
		if err := json.Unmarshal(meta, &pi.Metadata); err != nil {
			return nil, fmt.Errorf("decode payment metadata: %w", err)
		}
	}
	return pi, nil
}

func (r *paymentIntentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentIntentStatus) error {
	query := `UPDATE payment_intents SET status = $1, updated_at = $2 WHERE id = $3`
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update payment intent: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}

// MarkRefunded merges patch into the stored metadata with jsonb concatenation,
// so keys written by earlier flows survive.
func (r *paymentIntentRepository) MarkRefunded(ctx context.Context, id string, patch map[string]any) error {
	logger.EnterMethod("paymentIntentRepository.MarkRefunded", "paymentIntentID", id)
	raw, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("encode refund metadata: %w", err)
	}

	query := `UPDATE payment_intents
	          SET status = $1, metadata = COALESCE(metadata, '{}'::jsonb) || $2::jsonb, updated_at = $3
	          WHERE id = $4`
	logger.DatabaseCall("UPDATE", "payment_intents", "paymentIntentID", id)
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		domain.PaymentIntentStatusRefunded, string(raw), time.Now().UTC(), id)
	if err != nil {
		logger.ExitMethodWithError("paymentIntentRepository.MarkRefunded", err)
		return fmt.Errorf("mark payment refunded: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "paymentIntentID", id)
	if n == 0 {
		return domain.ErrPaymentNotFound
	}
	logger.ExitMethod("paymentIntentRepository.MarkRefunded", "paymentIntentID", id)
	return nil
}
