package handlers

import (
	"context"
	"net/http"
	"time"
)

// Pinger reports database reachability
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health handles GET /healthz
func Health(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			respondWithError(w, r, http.StatusServiceUnavailable, MsgDatabaseUnavailable, "health check failed", err)
			return
		}
		respondSuccess(w, r, http.StatusOK, map[string]string{"status": "ok"})
	}
}
