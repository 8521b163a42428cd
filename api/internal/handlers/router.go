package handlers

import (
	"net/http"

	"snort-dashboard/internal/metrics"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// NewRouter wires the API routes, /metrics and the middleware chain.
// CORS wraps the router so preflight requests are answered for every path.
func NewRouter(h *Handlers, allowedOrigins []string, m *metrics.Metrics, logger *logrus.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(RequestIDMiddleware, LoggingMiddleware(logger, m))

	h.Register(router)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods("GET")
	}

	return CORSMiddleware(allowedOrigins)(router)
}
