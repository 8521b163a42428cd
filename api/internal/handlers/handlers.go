package handlers

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"snort-dashboard/internal/dashboard"
	"snort-dashboard/internal/model"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// AdminTokenHeader carries the token required for administrative actions
const AdminTokenHeader = "X-Admin-Token"

// Service is the query surface the handlers serve
type Service interface {
	Logs(query url.Values) dashboard.LogsView
	Dashboard() dashboard.DashboardData
	Rules(file, search string) dashboard.RulesView
	Whitelist() dashboard.IPListView
	Blocklist() dashboard.IPListView
	ClearLogs() model.ClearResult
}

// Authorizer decides whether a request may perform administrative actions
type Authorizer interface {
	CanClearLogs(r *http.Request) bool
}

// TokenAuthorizer admits requests presenting Token in X-Admin-Token or as a bearer token.
// An empty Token admits nobody.
type TokenAuthorizer struct {
	Token string
}

func (a TokenAuthorizer) CanClearLogs(r *http.Request) bool {
	if a.Token == "" {
		return false
	}
	presented := r.Header.Get(AdminTokenHeader)
	if presented == "" {
		if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			presented = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return subtle.ConstantTimeCompare([]byte(presented), []byte(a.Token)) == 1
}

type Handlers struct {
	service Service
	auth    Authorizer
	logger  *logrus.Logger
}

func NewHandlers(service Service, auth Authorizer, logger *logrus.Logger) *Handlers {
	if auth == nil {
		auth = TokenAuthorizer{}
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Handlers{
		service: service,
		auth:    auth,
		logger:  logger,
	}
}

// Register mounts the API routes on router
func (h *Handlers) Register(router *mux.Router) {
	api := router.PathPrefix("/api/v1").Subrouter()
	router.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	api.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)

	// Logs endpoints
	api.HandleFunc("/logs/clear", h.ClearLogs).Methods("POST")
	// mux reports 404 for a method mismatch inside a subrouter; answer 405 explicitly
	api.HandleFunc("/logs/clear", h.MethodNotAllowed)
	api.HandleFunc("/logs", h.GetLogs).Methods("GET")

	// Dashboard endpoints
	api.HandleFunc("/dashboard", h.GetDashboard).Methods("GET")
	router.HandleFunc("/api/dashboard-data/", h.GetDashboard).Methods("GET")

	// Rules endpoints
	api.HandleFunc("/rules", h.GetRules).Methods("GET")

	// IP list endpoints
	api.HandleFunc("/whitelist", h.GetWhitelist).Methods("GET")
	api.HandleFunc("/blocklist", h.GetBlocklist).Methods("GET")

	// Health check
	router.HandleFunc("/health", h.Health).Methods("GET", "OPTIONS")
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func (h *Handlers) GetLogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Logs(r.URL.Query()))
}

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Dashboard())
}

func (h *Handlers) GetRules(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	search := q.Get("file_search")
	if search == "" {
		search = q.Get("search")
	}
	writeJSON(w, http.StatusOK, h.service.Rules(q.Get("file"), search))
}

func (h *Handlers) GetWhitelist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Whitelist())
}

func (h *Handlers) GetBlocklist(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.Blocklist())
}

// ClearLogs truncates the log files. Partial failures are still a 200 with per-file errors.
func (h *Handlers) ClearLogs(w http.ResponseWriter, r *http.Request) {
	if !h.auth.CanClearLogs(r) {
		h.logger.WithField("remote", r.RemoteAddr).Warn("Rejected clear-logs request")
		writeError(w, http.StatusForbidden, "Access denied: administrator privileges required to clear logs")
		return
	}

	result := h.service.ClearLogs()
	h.logger.WithFields(logrus.Fields{
		"remote":  r.RemoteAddr,
		"cleared": result.Cleared,
		"errors":  len(result.Errors),
	}).Info("Logs cleared")
	writeJSON(w, http.StatusOK, result)
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
	})
}
