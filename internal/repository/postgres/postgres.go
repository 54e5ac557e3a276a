package postgres

import (
	"context"
	"database/sql"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	_ "github.com/lib/pq"

	"growshare-backend/internal/repository"
)

// Transactor runs fn inside a database transaction carried by ctx.
// Repositories called with that ctx join the transaction.
type Transactor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

type Store struct {
	db *sql.DB
	Transactor
	repository.UserRepository
	repository.PlotRepository
	repository.BookingRepository
	repository.PaymentIntentRepository
	repository.ActivityRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	getter := trmsql.DefaultCtxGetter
	return &Store{
		db:                      db,
		Transactor:              manager.Must(trmsql.NewDefaultFactory(db)),
		UserRepository:          NewUserRepository(db, getter),
		PlotRepository:          NewPlotRepository(db, getter),
		BookingRepository:       NewBookingRepository(db, getter),
		PaymentIntentRepository: NewPaymentIntentRepository(db, getter),
		ActivityRepository:      NewActivityRepository(db, getter),
		NotificationRepository:  NewNotificationRepository(db, getter),
	}
}

// DB exposes the underlying pool for jobs that run raw statements.
func (s *Store) DB() *sql.DB {
	return s.db
}
