package service

import (
	"context"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/repository"
)

type activityService struct {
	activityRepo repository.ActivityRepository
}

func NewActivityService(activityRepo repository.ActivityRepository) ActivityService {
	return &activityService{activityRepo: activityRepo}
}

func (s *activityService) ListActivities(ctx context.Context, userID string, page, pageSize int32) ([]domain.UserActivity, int32, error) {
	_, limit, offset := normalizePage(page, pageSize)
	return s.activityRepo.ListByUser(ctx, userID, limit, offset)
}
