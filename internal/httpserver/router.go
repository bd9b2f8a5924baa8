// filepath: internal/httpserver/router.go
package httpserver

import (
	"net/http"

	"github.com/gorilla/mux"

	"mpvshelf/internal/api/handlers"
	"mpvshelf/internal/audit"
)

// SetupRouter configures the daemon's router: health and info endpoints, the
// command dispatch surface, and the progress event stream.
func SetupRouter(h *handlers.Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(audit.CommandMiddleware(audit.NewLoggerAuditor(h.Cfg.Logging.Audit)))

	r.HandleFunc("/health", handlers.HealthCheck).Methods("GET")
	r.HandleFunc("/api/info", h.GetInfo).Methods("GET")

	r.HandleFunc("/api/command/{name}", h.DispatchCommand).Methods("POST")
	r.Handle("/api/events/progress", h.Progress).Methods("GET")

	r.NotFoundHandler = http.HandlerFunc(notFound)
	return r
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, "Not found: "+r.URL.Path)
}
