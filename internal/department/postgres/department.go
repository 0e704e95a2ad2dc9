package postgres

import (
	"context"
	"errors"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	"github.com/frahmantamala/resource-management/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) department.RepositoryAPI {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) GetAll(ctx context.Context) ([]*resourceDatamodel.Department, error) {
	var departments []*resourceDatamodel.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

func (r *DepartmentRepository) GetByName(ctx context.Context, name string) (*resourceDatamodel.Department, error) {
	var dep resourceDatamodel.Department
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&dep).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dep, nil
}

func (r *DepartmentRepository) Create(ctx context.Context, dep *resourceDatamodel.Department) error {
	return r.db.WithContext(ctx).Create(dep).Error
}

func (r *DepartmentRepository) Update(ctx context.Context, dep *resourceDatamodel.Department) error {
	return r.db.WithContext(ctx).Save(dep).Error
}
