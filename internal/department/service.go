package department

import (
	"context"
	"log/slog"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
)

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*resourceDatamodel.Department, error)
	GetByName(ctx context.Context, name string) (*resourceDatamodel.Department, error)
	Create(ctx context.Context, department *resourceDatamodel.Department) error
	Update(ctx context.Context, department *resourceDatamodel.Department) error
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

// GetAllDepartments returns the active departments.
func (s *Service) GetAllDepartments(ctx context.Context) ([]DepartmentResponse, error) {
	dataDepartments, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to get departments from repository", "error", err)
		return nil, err
	}

	responses := make([]DepartmentResponse, 0, len(dataDepartments))
	for _, dataDepartment := range dataDepartments {
		domainDepartment := FromDataModel(dataDepartment)
		if domainDepartment.IsActiveDepartment() {
			responses = append(responses, domainDepartment.ToResponse())
		}
	}

	s.logger.Info("retrieved departments", "count", len(responses))
	return responses, nil
}

func (s *Service) GetDepartmentByName(ctx context.Context, name string) (*DepartmentResponse, error) {
	dataDepartment, err := s.repo.GetByName(ctx, name)
	if err != nil {
		s.logger.Error("failed to get department from repository", "error", err, "name", name)
		return nil, err
	}
	if dataDepartment == nil {
		return nil, nil
	}

	domainDepartment := FromDataModel(dataDepartment)
	if !domainDepartment.IsActiveDepartment() {
		return nil, nil
	}
	response := domainDepartment.ToResponse()
	return &response, nil
}

func (s *Service) IsValidDepartment(ctx context.Context, name string) bool {
	department, err := s.GetDepartmentByName(ctx, name)
	if err != nil {
		s.logger.Warn("error checking department validity", "name", name, "error", err)
		return false
	}
	return department != nil
}
