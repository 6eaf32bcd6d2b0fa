package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"fieldops.service/internal/core"
	"github.com/rs/zerolog/log"
)

// Handler exposes the reconciliation and submission services over HTTP.
type Handler struct {
	Activities *core.ActivityService
	Attendance *core.AttendanceService
	Summary    *core.SummaryService
	Checkins   *core.CheckinService
	Leaves     *core.LeaveService
}

// errorBody is the structured "not ok" failure payload. The UI shows the
// message and lets the user retry by re-issuing the request.
type errorBody struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{OK: false, Message: message})
}

func activityFilterFromQuery(r *http.Request) core.ActivityFilter {
	q := r.URL.Query()
	return core.ActivityFilter{
		StartDate: q.Get("from"),
		EndDate:   q.Get("to"),
		Query:     q.Get("q"),
		District:  q.Get("district"),
	}
}

// GetActivities returns the reconciled activity records.
func (h *Handler) GetActivities(w http.ResponseWriter, r *http.Request) {
	records, err := h.Activities.Reconcile(r.Context(), activityFilterFromQuery(r))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Reconciliation failed")
		writeError(w, http.StatusBadGateway, "Could not load activity data")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// GetAttendance returns the per-day attendance rows.
func (h *Handler) GetAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Attendance.Daily(r.Context(), core.AttendanceFilter{
		StartDate: q.Get("from"),
		EndDate:   q.Get("to"),
		Name:      q.Get("q"),
		District:  q.Get("district"),
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Attendance aggregation failed")
		writeError(w, http.StatusBadGateway, "Could not load attendance data")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetMonthlyAttendance returns the monthly calendar view.
func (h *Handler) GetMonthlyAttendance(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "year is required")
		return
	}
	monthNum, err := strconv.Atoi(q.Get("month"))
	if err != nil || monthNum < 1 || monthNum > 12 {
		writeError(w, http.StatusBadRequest, "month must be 1-12")
		return
	}

	rows, err := h.Attendance.Monthly(r.Context(), year, time.Month(monthNum), core.AttendanceFilter{
		Name:     q.Get("q"),
		District: q.Get("district"),
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Monthly rollup failed")
		writeError(w, http.StatusBadGateway, "Could not load monthly attendance")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetSummary returns the per-person totals.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Summary.Summarize(r.Context(), activityFilterFromQuery(r))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Summary aggregation failed")
		writeError(w, http.StatusBadGateway, "Could not load summary data")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// GetLeaves returns the leave calendar.
func (h *Handler) GetLeaves(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := h.Leaves.Leaves(r.Context(), core.LeaveFilter{
		StartDate: q.Get("from"),
		EndDate:   q.Get("to"),
		Query:     q.Get("q"),
		District:  q.Get("district"),
	})
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Leave listing failed")
		writeError(w, http.StatusBadGateway, "Could not load leave data")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// PostCheckin records a check-in submission.
func (h *Handler) PostCheckin(w http.ResponseWriter, r *http.Request) {
	var req core.CheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Location == "" {
		writeError(w, http.StatusBadRequest, "email and location are required")
		return
	}

	if err := h.Checkins.SubmitCheckin(r.Context(), req); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Check-in failed")
		writeError(w, http.StatusBadGateway, "Could not record check-in")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}

// PostCheckout records a checkout submission and reports the geofence result.
func (h *Handler) PostCheckout(w http.ResponseWriter, r *http.Request) {
	var req core.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Location == "" {
		writeError(w, http.StatusBadRequest, "email and location are required")
		return
	}

	result, err := h.Checkins.SubmitCheckout(r.Context(), req)
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Checkout failed")
		writeError(w, http.StatusBadGateway, "Could not record checkout")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"ok":         true,
		"distanceKm": result.DistanceKm,
		"outOfArea":  result.OutOfArea,
	})
}

// PostLeave records a leave submission.
func (h *Handler) PostLeave(w http.ResponseWriter, r *http.Request) {
	var req core.LeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email is required")
		return
	}

	if err := h.Leaves.SubmitLeave(r.Context(), req); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Leave submission failed")
		writeError(w, http.StatusBadGateway, "Could not record leave")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
}
