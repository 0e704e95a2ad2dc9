package department

import (
	"context"
	"net/http"

	"github.com/frahmantamala/resource-management/internal/transport"
)

type ServiceAPI interface {
	GetAllDepartments(ctx context.Context) ([]DepartmentResponse, error)
	GetDepartmentByName(ctx context.Context, name string) (*DepartmentResponse, error)
	IsValidDepartment(ctx context.Context, name string) bool
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.Service.GetAllDepartments(r.Context())
	if err != nil {
		h.Logger.Error("GetDepartments: failed to get departments", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to get departments")
		return
	}

	h.WriteJSON(w, http.StatusOK, departments)
}
