package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/google/uuid"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
)

type userRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewUserRepository(db *sql.DB, getter *trmsql.CtxGetter) repository.UserRepository {
	return &userRepository{db: db, getter: getter}
}

const userColumns = `id, auth_id, email, name, COALESCE(phone, ''), password_hash, points, payout_account_id, payout_onboarded, push_token, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.AuthID == "" {
		u.AuthID = u.ID
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now

	query := `INSERT INTO users (id, auth_id, email, name, phone, password_hash, points, payout_account_id, payout_onboarded, push_token, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		u.ID, u.AuthID, u.Email, u.Name, u.Phone, u.PasswordHash, u.Points, u.PayoutAccountID, u.PayoutOnboarded, u.PushToken, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *userRepository) GetByAuthID(ctx context.Context, authID string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE auth_id = $1`, authID)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	u := &domain.User{}
	var payoutAccountID, pushToken sql.NullString
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.AuthID, &u.Email, &u.Name, &u.Phone, &u.PasswordHash, &u.Points,
		&payoutAccountID, &u.PayoutOnboarded, &pushToken, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	if payoutAccountID.Valid {
		u.PayoutAccountID = &payoutAccountID.String
	}
	if pushToken.Valid {
		u.PushToken = &pushToken.String
	}
	return u, nil
}

func (r *userRepository) IncrementPoints(ctx context.Context, userID string, points int32) error {
	logger.DatabaseCall("UPDATE", "users", "userID", userID, "points", points)
	query := `UPDATE users SET points = points + $1, updated_at = $2 WHERE id = $3`
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, points, time.Now().UTC(), userID)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err, "userID", userID)
		return fmt.Errorf("increment points: %w", err)
	}
	n, _ := res.RowsAffected()
	logger.DatabaseResult("UPDATE", n, nil, "userID", userID)
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) SetPayoutOnboarded(ctx context.Context, userID string, onboarded bool) error {
	query := `UPDATE users SET payout_onboarded = $1, updated_at = $2 WHERE id = $3`
	res, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query, onboarded, time.Now().UTC(), userID)
	if err != nil {
		return fmt.Errorf("update payout onboarding: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
