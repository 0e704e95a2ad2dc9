package submission

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/frahmantamala/resource-management/internal/transport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ServiceAPI interface {
	Overview(ctx context.Context, week, department string) ([]Record, error)
	SendReminders(ctx context.Context, req ReminderRequest) (*ReminderResponse, error)
	Export(ctx context.Context, week, department string) ([]byte, string, error)
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

// GetSubmissions serves GET /submissions?week=YYYY-MM-DD&department=name.
func (h *Handler) GetSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	records, err := h.Service.Overview(r.Context(), q.Get("week"), q.Get("department"))
	if err != nil {
		h.Logger.Error("GetSubmissions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, records)
}

func (h *Handler) SendReminders(w http.ResponseWriter, r *http.Request) {
	var req ReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := h.Service.SendReminders(r.Context(), req)
	if err != nil {
		h.Logger.Error("SendReminders: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) ExportSubmissions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	week := q.Get("week")
	if week == "" {
		week = q.Get("weekStartDate")
	}

	data, filename, err := h.Service.Export(r.Context(), week, q.Get("department"))
	if err != nil {
		h.Logger.Error("ExportSubmissions: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteFile(w, xlsxContentType, filename, data)
}
