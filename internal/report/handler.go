package report

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/resource-management/internal/transport"
)

type ServiceAPI interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
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

func (h *Handler) GenerateBusinessControllerReport(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.Generate(r.Context(), req)
	if err != nil {
		h.Logger.Error("GenerateBusinessControllerReport: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}
