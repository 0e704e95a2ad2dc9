package report

import (
	"context"
	"errors"
	"log/slog"

	"github.com/frahmantamala/resource-management/internal"
)

type RepositoryAPI interface {
	ActualHours(ctx context.Context, period Period, activeOnly bool) ([]Row, error)
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

// Generate aggregates the actual hours booked in the requested period.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	period, err := ParsePeriod(req.StartDate, req.EndDate)
	if err != nil {
		s.logger.Warn("invalid report period", "start_date", req.StartDate, "end_date", req.EndDate, "error", err)
		if errors.Is(err, ErrInvalidPeriod) {
			return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidPeriod)
		}
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeInvalidDate)
	}

	rows, err := s.repo.ActualHours(ctx, period, req.ShowOnlyActive)
	if err != nil {
		s.logger.Error("failed to aggregate actual hours", "error", err, "start_date", period.StartDate(), "end_date", period.EndDate())
		return nil, internal.NewInternalError("failed to generate report", err)
	}
	if rows == nil {
		rows = []Row{}
	}

	s.logger.Info("business controller report generated",
		"start_date", period.StartDate(),
		"end_date", period.EndDate(),
		"active_only", req.ShowOnlyActive,
		"rows", len(rows))

	return &GenerateResponse{
		ReportData: rows,
		Summary:    Summarize(rows),
	}, nil
}
