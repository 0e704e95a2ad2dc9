package department

import (
	"time"

	resourceDatamodel "github.com/frahmantamala/resource-management/internal/core/datamodel/resource"
)

type Department struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (d *Department) IsActiveDepartment() bool {
	return d.IsActive
}

func (d *Department) ToResponse() DepartmentResponse {
	return DepartmentResponse{
		ID:   d.ID,
		Name: d.Name,
	}
}

func NewDepartment(name string) *Department {
	now := time.Now()
	return &Department{
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func ToDataModel(d *Department) *resourceDatamodel.Department {
	return &resourceDatamodel.Department{
		ID:        d.ID,
		Name:      d.Name,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func FromDataModel(d *resourceDatamodel.Department) *Department {
	return &Department{
		ID:        d.ID,
		Name:      d.Name,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
