package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type OrderHandler struct {
	Service *service.OrderService
}

func (h OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/start", h.start)
	r.Get("/orders/in-progress", h.inProgress)
	r.Get("/orders/{id}", h.get)
	r.Post("/orders/{id}/complete", h.complete)
	r.Post("/orders/{id}/not-provided", h.notProvided)
}

func (h OrderHandler) start(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	var req struct {
		ClientName  string  `json:"clientName"`
		ClientPhone string  `json:"clientPhone"`
		ServiceIDs  []int64 `json:"serviceIds"`
		// ServiceID is the single-service form; it is merged into ServiceIDs.
		ServiceID *int64 `json:"serviceId"`
		BranchID  int64  `json:"branchId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	ids := req.ServiceIDs
	if req.ServiceID != nil {
		ids = append([]int64{*req.ServiceID}, ids...)
	}
	branch := req.BranchID
	if branch == 0 {
		branch = user.BranchID
	}
	id, err := h.Service.Start(r.Context(), service.StartOrderInput{
		EmployeeID:  user.ID,
		BranchID:    branch,
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		ServiceIDs:  ids,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"orderId": id})
}

func (h OrderHandler) complete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		PaymentType string `json:"paymentType"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	order, err := h.Service.Complete(r.Context(), id, req.PaymentType)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderView(*order))
}

func (h OrderHandler) notProvided(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Reason string `json:"reason"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	order, err := h.Service.MarkNotProvided(r.Context(), id, req.Reason)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderView(*order))
}

func (h OrderHandler) inProgress(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	items, err := h.Service.ListInProgress(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, o := range items {
		resp = append(resp, map[string]any{
			"id":          o.ID,
			"clientName":  o.ClientName,
			"clientPhone": o.ClientPhone,
			"services":    o.Services,
			"createdAt":   o.CreatedAt.UTC().Format(time.RFC3339),
			"minutes":     o.Minutes,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h OrderHandler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := currentUser(w, r)
	if user == nil {
		return
	}
	order, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if order.EmployeeID != user.ID && !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	writeJSON(w, http.StatusOK, orderView(*order))
}
