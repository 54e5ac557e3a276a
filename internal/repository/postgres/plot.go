package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository"
)

type plotRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewPlotRepository(db *sql.DB, getter *trmsql.CtxGetter) repository.PlotRepository {
	return &plotRepository{db: db, getter: getter}
}

func (r *plotRepository) GetByID(ctx context.Context, id string) (*domain.Plot, error) {
	p := &domain.Plot{}
	query := `SELECT id, owner_id, title, COALESCE(description, ''), COALESCE(city, ''),
	                 price_per_day_cents, price_per_week_cents, price_per_month_cents, pricing_unit, created_at
	          FROM plots WHERE id = $1`
	err := r.getter.DefaultTrOrDB(ctx, r.db).QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.OwnerID, &p.Title, &p.Description, &p.City,
		&p.PricePerDayCents, &p.PricePerWeekCents, &p.PricePerMonthCents, &p.PricingUnit, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrPlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select plot: %w", err)
	}
	return p, nil
}
