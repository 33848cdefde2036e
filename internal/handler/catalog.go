package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type CatalogHandler struct {
	Service *service.CatalogService
}

func (h CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Get("/services", h.list)
}

func (h CatalogHandler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/services", h.create)
}

func (h CatalogHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.ListServices(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(items))
	for _, s := range items {
		resp = append(resp, serviceView(s))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h CatalogHandler) create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Price int64  `json:"price"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	created, err := h.Service.CreateService(r.Context(), req.Name, req.Price)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, serviceView(*created))
}
