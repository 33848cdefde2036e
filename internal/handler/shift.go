package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type ShiftHandler struct {
	Service *service.ShiftService
}

func (h ShiftHandler) RegisterRoutes(r chi.Router) {
	r.Post("/shifts/end", h.end)
	r.Get("/shifts/current", h.current)
	r.Get("/shifts", h.history)
}

func (h ShiftHandler) end(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	sum, err := h.Service.Close(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	orders := make([]map[string]any, 0, len(sum.Orders))
	for _, o := range sum.Orders {
		orders = append(orders, orderView(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"shift":    shiftView(sum.Shift),
		"employee": sum.EmployeeName,
		"totals":   sum.Totals,
		"orders":   orders,
		"report":   sum.Report,
	})
}

func (h ShiftHandler) current(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	shift, err := h.Service.Current(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shiftView(*shift))
}

func (h ShiftHandler) history(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	limit := 30
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	items, err := h.Service.History(r.Context(), user.ID, limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, shiftView(s))
	}
	writeJSON(w, http.StatusOK, resp)
}
