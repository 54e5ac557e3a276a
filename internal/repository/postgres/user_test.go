package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository/postgres"
)

var userCols = []string{"id", "auth_id", "email", "name", "phone", "password_hash", "points", "payout_account_id", "payout_onboarded", "push_token", "created_at", "updated_at"}

func TestUserRepository_GetByAuthID(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := postgres.NewUserRepository(db, trmsql.DefaultCtxGetter)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM users WHERE auth_id = \\$1").
		WithArgs("auth-1").
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow("u1", "auth-1", "a@example.com", "Ann", "", "hash", int64(30), "recp_1", true, nil, now, now))

	u, err := repo.GetByAuthID(ctx, "auth-1")
	require.NoError(t, err)
	assert.Equal(t, int32(30), u.Points)
	require.NotNil(t, u.PayoutAccountID)
	assert.Equal(t, "recp_1", *u.PayoutAccountID)
	assert.Nil(t, u.PushToken)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))
	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserRepository_IncrementPoints(t *testing.T) {
	ctx := context.Background()
	db, mock := newMock(t)
	repo := postgres.NewUserRepository(db, trmsql.DefaultCtxGetter)

	mock.ExpectExec("UPDATE users SET points = points \\+ \\$1").
		WithArgs(int64(15), sqlmock.AnyArg(), "o1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.IncrementPoints(ctx, "o1", domain.ApprovalPoints))

	mock.ExpectExec("UPDATE users SET points").
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.IncrementPoints(ctx, "ghost", 15), domain.ErrUserNotFound)
}
