package postgres

import (
	"context"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
	"github.com/frahmantamala/resource-management/internal/resource"
	"gorm.io/gorm"
)

type ResourceRepository struct {
	db *gorm.DB
}

func NewResourceRepository(db *gorm.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

func (r *ResourceRepository) ListResources(ctx context.Context) ([]resource.Resource, error) {
	var rows []*resourceDatamodel.Resource
	err := r.db.WithContext(ctx).
		Preload("Department").
		Order("name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]resource.Resource, len(rows))
	for i, row := range rows {
		out[i] = resource.FromDataModel(row)
	}
	return out, nil
}

func (r *ResourceRepository) ListAllocations(ctx context.Context) ([]resource.Allocation, error) {
	var rows []*resourceDatamodel.Allocation
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]resource.Allocation, len(rows))
	for i, row := range rows {
		out[i] = resource.AllocationFromDataModel(row)
	}
	return out, nil
}

// GetByIDs returns the resources whose ids are listed, ignoring unknown ids.
func (r *ResourceRepository) GetByIDs(ctx context.Context, ids []int64) ([]resource.Resource, error) {
	if len(ids) == 0 {
		return []resource.Resource{}, nil
	}

	var rows []*resourceDatamodel.Resource
	err := r.db.WithContext(ctx).
		Preload("Department").
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]resource.Resource, len(rows))
	for i, row := range rows {
		out[i] = resource.FromDataModel(row)
	}
	return out, nil
}

func (r *ResourceRepository) Create(res *resourceDatamodel.Resource) error {
	return r.db.Create(res).Error
}

func (r *ResourceRepository) CreateAllocation(a *resourceDatamodel.Allocation) error {
	return r.db.Create(a).Error
}
