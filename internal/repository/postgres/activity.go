package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	trmsql "github.com/avito-tech/go-transaction-manager/drivers/sql/v2"
	"github.com/google/uuid"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
)

type activityRepository struct {
	db     *sql.DB
	getter *trmsql.CtxGetter
}

func NewActivityRepository(db *sql.DB, getter *trmsql.CtxGetter) repository.ActivityRepository {
	return &activityRepository{db: db, getter: getter}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.UserActivity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.CreatedAt = time.Now().UTC()

	query := `INSERT INTO user_activities (id, user_id, type, title, description, points, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	logger.DatabaseCall("INSERT", "user_activities", "userID", a.UserID, "type", a.Type)
	_, err := r.getter.DefaultTrOrDB(ctx, r.db).ExecContext(ctx, query,
		a.ID, a.UserID, a.Type, a.Title, a.Description, a.Points, a.CreatedAt)
	logger.DatabaseResult("INSERT", 1, err, "activityID", a.ID)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *activityRepository) ListByUser(ctx context.Context, userID string, limit, offset int32) ([]domain.UserActivity, int32, error) {
	tr := r.getter.DefaultTrOrDB(ctx, r.db)

	var count int32
	if err := tr.QueryRowContext(ctx, `SELECT count(*) FROM user_activities WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, fmt.Errorf("count activities: %w", err)
	}

	query := `SELECT id, user_id, type, title, COALESCE(description, ''), points, created_at
	          FROM user_activities WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := tr.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var activities []domain.UserActivity
	for rows.Next() {
		var a domain.UserActivity
		if err := rows.Scan(&a.ID, &a.UserID, &a.Type, &a.Title, &a.Description, &a.Points, &a.CreatedAt); err != nil {
			return nil, 0, err
		}
		activities = append(activities, a)
	}
	return activities, count, rows.Err()
}
