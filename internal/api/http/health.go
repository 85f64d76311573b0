package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/miskatonic/quiz-api/internal/sync"
)

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// GET /healthz
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}
}

// GET /readyz pings every store.
func ReadyHandler(dbs ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for i, db := range dbs {
			if err := db.PingContext(r.Context()); err != nil {
				http.Error(w, "store "+strconv.Itoa(i)+" unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ready"))
	}
}

// GET /audit?limit=100
func AuditHandler(events *syncx.EventRepo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := events.Recent(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 100))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}
