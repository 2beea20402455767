package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
)

const maxJobDescriptionBytes = 32 << 10

type fitRequest struct {
	JobDescription string `json:"job_description"`
}

func (a *App) AnalyzeJobFit(w http.ResponseWriter, r *http.Request) {
	var req fitRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJobDescriptionBytes)).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	description := strings.TrimSpace(req.JobDescription)
	if description == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "job_description required")
		return
	}
	if a.Fit == nil {
		a.error(w, http.StatusInternalServerError, "config_error", "job fit analysis is not configured")
		return
	}
	assessment, err := a.Fit.Analyze(r.Context(), description)
	if err != nil {
		a.Logger.Error().Err(err).Msg("job fit analysis failed")
		a.Metrics.RecordFitAnalysis("failed")
		a.error(w, http.StatusUnprocessableEntity, "analysis_failed", "could not analyze the job description")
		return
	}
	a.Metrics.RecordFitAnalysis("ok")
	a.json(w, http.StatusOK, assessment)
}
