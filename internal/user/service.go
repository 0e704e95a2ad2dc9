package user

import (
	"context"
	"fmt"
	"log/slog"
)

type Repository interface {
	GetByID(ctx context.Context, userID int64) (*User, error)
	GetRoles(ctx context.Context, userID int64) ([]string, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByID(ctx context.Context, userID int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	roles, err := s.repo.GetRoles(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	u.Roles = roles

	return u, nil
}
