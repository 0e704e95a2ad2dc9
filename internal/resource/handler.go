package resource

import (
	"context"
	"net/http"

	"github.com/frahmantamala/resource-management/internal/transport"
)

type ServiceAPI interface {
	ListResources(ctx context.Context, f Filter) ([]Resource, error)
	ListAllocations(ctx context.Context) ([]Allocation, error)
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

// GetResources serves GET /resources with optional filter query parameters.
func (h *Handler) GetResources(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := Filter{
		Search:     q.Get("search"),
		Department: q.Get("department"),
		Role:       q.Get("role"),
		Status:     q.Get("status"),
		Capacity:   q.Get("capacity"),
		Skill:      q.Get("skill"),
	}

	resources, err := h.Service.ListResources(r.Context(), f)
	if err != nil {
		h.Logger.Error("GetResources: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resources)
}

func (h *Handler) GetAllocations(w http.ResponseWriter, r *http.Request) {
	allocations, err := h.Service.ListAllocations(r.Context())
	if err != nil {
		h.Logger.Error("GetAllocations: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, allocations)
}
