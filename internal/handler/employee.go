package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type EmployeeHandler struct {
	Catalog *service.CatalogService
	Auth    *service.AuthService
}

func (h EmployeeHandler) RegisterRoutes(r chi.Router) {
	r.Get("/employees", h.list)
	r.Post("/employees", h.create)
	r.Delete("/employees/{id}", h.delete)
}

func (h EmployeeHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListEmployees(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, e := range items {
		resp = append(resp, employeeView(e))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h EmployeeHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		BranchID int64  `json:"branchId"`
		Pin      string `json:"pin"`
		Role     string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	user := currentUser(w, r)
	if user == nil {
		return
	}
	if req.BranchID == 0 {
		req.BranchID = user.BranchID
	}
	created, err := h.Auth.RegisterEmployee(r.Context(), service.RegisterEmployeeInput{
		Name:     req.Name,
		BranchID: req.BranchID,
		PIN:      req.Pin,
		Role:     req.Role,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, employeeView(*created))
}

// delete deactivates the employee; their orders and shifts are kept.
func (h EmployeeHandler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user := currentUser(w, r)
	if user == nil {
		return
	}
	if user.ID == id {
		writeError(w, http.StatusBadRequest, "cannot deactivate yourself")
		return
	}
	if err := h.Catalog.DeactivateEmployee(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "active": false})
}
