package router

import (
	"net/http"

	"github.com/shandysiswandi/growguard/internal/pkg/config"
)

// middlewareMaintenance answers 503 for routes listed in app.maintenance.endpoints.
// The list is re-read on each request so a config reload takes effect live.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg != nil {
				route := matchedRoutePath(r)
				for _, ep := range cfg.GetArray("app.maintenance.endpoints") {
					if ep == route {
						writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
