package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"fieldops.service/internal/api/handler"
)

// NewRouter sets up the gorilla/mux router and defines all API routes.
func NewRouter(h *handler.Handler) *mux.Router {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/checkin", h.PostCheckin).Methods(http.MethodPost)
	api.HandleFunc("/checkout", h.PostCheckout).Methods(http.MethodPost)
	api.HandleFunc("/leave", h.PostLeave).Methods(http.MethodPost)

	api.HandleFunc("/activities", h.GetActivities).Methods(http.MethodGet)
	api.HandleFunc("/attendance", h.GetAttendance).Methods(http.MethodGet)
	api.HandleFunc("/attendance/month", h.GetMonthlyAttendance).Methods(http.MethodGet)
	api.HandleFunc("/summary", h.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/leaves", h.GetLeaves).Methods(http.MethodGet)

	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Service is operational."))
	}).Methods(http.MethodGet)

	return r
}
