package postgres_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository/postgres"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestStore_TransactorCommits(t *testing.T) {
	db, mock := newMock(t)
	store := postgres.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WithArgs("APPROVED", sqlmock.AnyArg(), "b1", "PENDING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := store.Do(context.Background(), func(ctx context.Context) error {
		return store.BookingRepository.UpdateStatus(ctx, "b1", "PENDING", "APPROVED")
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TransactorRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	store := postgres.NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE bookings SET status").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := store.Do(context.Background(), func(ctx context.Context) error {
		return store.BookingRepository.UpdateStatus(ctx, "b1", "PENDING", "APPROVED")
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStatusConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}
