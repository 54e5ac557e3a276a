package service

import (
	"context"
	"errors"

	"growshare-backend/internal/domain"
	"growshare-backend/internal/logger"
	"growshare-backend/internal/repository"
	"growshare-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, tokens security.TokenManager) AuthService {
	return &authService{userRepo: userRepo, tokens: tokens}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		logger.WarnContext(ctx, "Login rejected", "userID", user.ID)
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.AuthID, user.Email)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) ResolveUser(ctx context.Context, authID string) (*domain.User, error) {
	return s.userRepo.GetByAuthID(ctx, authID)
}
