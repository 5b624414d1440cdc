package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Routes builds the router. authMiddleware guards everything that acts on an
// account; metricsHandler may be nil when metrics are disabled.
func (h *Handlers) Routes(authMiddleware mux.MiddlewareFunc, metricsHandler http.Handler) *mux.Router {
	r := mux.NewRouter()

	// Public
	r.HandleFunc("/health", HealthHandler).Methods(http.MethodGet)
	r.HandleFunc("/tables", h.TablesHandler).Methods(http.MethodGet)
	if metricsHandler != nil {
		path := "/metrics"
		if h.Cfg != nil && h.Cfg.Metrics.Path != "" {
			path = h.Cfg.Metrics.Path
		}
		r.Handle(path, metricsHandler).Methods(http.MethodGet)
	}
	r.HandleFunc("/api/oauth/begin", h.BeginOAuth).Methods(http.MethodPost)
	r.HandleFunc("/api/oauth/callback", h.OAuthCallback).Methods(http.MethodGet)

	// Protected
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/profile", h.GetProfile).Methods(http.MethodGet)
	api.HandleFunc("/timeline", h.GetTimeline).Methods(http.MethodGet)
	api.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	api.HandleFunc("/posts/pending", h.GetPendingPosts).Methods(http.MethodGet)
	api.HandleFunc("/sync", h.RunSync).Methods(http.MethodPost)

	return r
}
