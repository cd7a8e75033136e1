package controllers

import (
	"net/http"

	"secure-shop/services"
)

// AnalyticsController serves the admin dashboard summary.
type AnalyticsController struct {
	Analytics *services.AnalyticsService
}

// NewAnalyticsController creates a new AnalyticsController.
func NewAnalyticsController(analytics *services.AnalyticsService) *AnalyticsController {
	return &AnalyticsController{Analytics: analytics}
}

// GetSummary computes the dashboard summary on demand. Admin only.
func (ac *AnalyticsController) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := ac.Analytics.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}
