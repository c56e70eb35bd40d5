package controllers

import (
	"log/slog"
	"net/http"
	"strconv"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/domain"
)

type DashboardController struct {
	Logger  *slog.Logger
	Service domain.DashboardService
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService) *DashboardController {
	return &DashboardController{Logger: logger, Service: svc}
}

// Stats godoc
// @Summary Dashboard aggregate counts
// @Description Admin only. Total events, users, registrations, certificates, and attended registrations.
// @Tags dashboard
// @Produce json
// @Security SessionCookie
// @Success 200 {object} helpers.APIResponse "data contains DashboardStats"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard/stats [get]
func (c *DashboardController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.Service.GetStats(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, stats)
}

// RecentActivity godoc
// @Summary Recent activity feed
// @Description Admin only. Most recent audit entries, newest first. ?limit= defaults to 20, capped at 100.
// @Tags dashboard
// @Produce json
// @Security SessionCookie
// @Param limit query int false "Max entries to return"
// @Success 200 {object} helpers.APIResponse "data contains activity entries"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /dashboard/activity [get]
func (c *DashboardController) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if v, err := strconv.Atoi(s); err == nil {
			limit = v
		}
	}
	entries, err := c.Service.GetRecentActivity(r.Context(), limit)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, entries)
}
