package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ttvMolten/Egov-services-db/internal/report"
	"github.com/ttvMolten/Egov-services-db/internal/service"
)

type ReportHandler struct {
	Service *service.ReportService
}

func (h ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/admin/report/today", h.today)
	r.Get("/admin/report", h.byDate)
	r.Post("/admin/report/today/send", h.sendToday)
	r.Get("/admin/report/export", h.export)
}

func (h ReportHandler) today(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	d, err := h.Service.Daily(r.Context(), user.ID, nil)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dailyView(*d))
}

func (h ReportHandler) byDate(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	day, err := parseReportDate(r, "date", h.Service.Today())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	d, err := h.Service.Daily(r.Context(), user.ID, day)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.dailyView(*d))
}

func (h ReportHandler) sendToday(w http.ResponseWriter, r *http.Request) {
	user := currentUser(w, r)
	if user == nil {
		return
	}
	d, err := h.Service.SendDaily(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, h.dailyView(*d))
}

func (h ReportHandler) dailyView(d report.Daily) map[string]any {
	return map[string]any{
		"date":      d.Date,
		"employees": d.Employees,
		"total":     d.Total,
		"text":      h.Service.Render(d, false),
	}
}
