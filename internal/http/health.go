package http

import (
	"context"
	"net/http"
	"time"

	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/httpx"
)

type healthResponse struct {
	Status   string `json:"status"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// HealthHandler reports liveness plus database reachability.
//
//	@Summary	Health check
//	@Tags		System
//	@Produce	json
//	@Success	200	{object}	healthResponse
//	@Failure	503	{object}	healthResponse	"Database unreachable"
//	@Router		/api/health [get].
func HealthHandler(startTime time.Time, version string, st store.Store) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:   "ok",
			Version:  version,
			Uptime:   time.Since(startTime).Round(time.Second).String(),
			Database: "connected",
		}
		code := http.StatusOK
		if err := st.Ping(ctx); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			code = http.StatusServiceUnavailable
		}
		httpx.WriteJSON(w, code, resp)
	})
}
