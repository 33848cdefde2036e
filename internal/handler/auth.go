package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type AuthHandler struct {
	Service *service.AuthService
}

func (h AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/pin", h.loginPIN)
}

// loginPIN authenticates by PIN and opens the employee's shift.
func (h AuthHandler) loginPIN(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PIN string `json:"pin"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	res, err := h.Service.Login(r.Context(), req.PIN)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"employeeId":  res.Employee.ID,
		"name":        res.Employee.Name,
		"role":        res.Employee.Role,
		"branchId":    res.Employee.BranchID,
		"shift":       shiftView(res.Shift),
		"shiftOpened": res.ShiftOpened,
		"accessToken": res.AccessToken,
		"expiresAt":   res.ExpiresAt.UTC().Format(time.RFC3339),
	})
}
