package resource

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/resource-management/internal"
)

type RepositoryAPI interface {
	ListResources(ctx context.Context) ([]Resource, error)
	ListAllocations(ctx context.Context) ([]Allocation, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ListResources returns every resource, narrowed by f when it is not empty.
func (s *Service) ListResources(ctx context.Context, f Filter) ([]Resource, error) {
	if err := f.Validate(); err != nil {
		s.logger.Warn("invalid resource filter", "error", err)
		return nil, internal.NewValidationFieldError("filter", err.Error(), internal.ErrCodeValidationFailed)
	}

	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		s.logger.Error("failed to list resources", "error", err)
		return nil, internal.NewInternalError("failed to list resources", err)
	}

	if f.IsZero() {
		return resources, nil
	}

	allocations, err := s.repo.ListAllocations(ctx)
	if err != nil {
		s.logger.Error("failed to list allocations for filtering", "error", err)
		return nil, internal.NewInternalError("failed to list allocations", err)
	}

	filtered := Apply(resources, allocations, f)
	s.logger.Debug("resources filtered", "total", len(resources), "matched", len(filtered))
	return filtered, nil
}

func (s *Service) ListAllocations(ctx context.Context) ([]Allocation, error) {
	allocations, err := s.repo.ListAllocations(ctx)
	if err != nil {
		s.logger.Error("failed to list allocations", "error", err)
		return nil, internal.NewInternalError("failed to list allocations", err)
	}
	return allocations, nil
}
