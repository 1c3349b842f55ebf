package gateway

import (
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/esengine/nova-ecs-editor/catalog"
	"github.com/esengine/nova-ecs-editor/component"
	"github.com/esengine/nova-ecs-editor/errors"
	"github.com/esengine/nova-ecs-editor/health"
	"github.com/esengine/nova-ecs-editor/metadata"
	"github.com/esengine/nova-ecs-editor/metric"
	"github.com/esengine/nova-ecs-editor/session"
)

// HTTPHandler is implemented by anything that mounts routes on a shared mux
type HTTPHandler interface {
	RegisterHTTPHandlers(prefix string, mux *http.ServeMux)
}

var _ HTTPHandler = (*Gateway)(nil)

// Config controls optional gateway behaviour
type Config struct {
	EnableCORS  bool     `json:"enable_cors" yaml:"enable_cors"`
	CORSOrigins []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
	MetricsPath string   `json:"metrics_path,omitempty" yaml:"metrics_path,omitempty"` // empty disables /metrics
}

// Option configures a Gateway
type Option func(*Gateway)

// WithSessions enables the session routes and the ?session= registry selector
func WithSessions(sessions *session.Manager) Option {
	return func(g *Gateway) { g.sessions = sessions }
}

// WithMetrics serves the metrics registry and counts requests in it
func WithMetrics(registry *metric.MetricsRegistry) Option {
	return func(g *Gateway) { g.metricsRegistry = registry }
}

// WithHealth serves the monitor's aggregate at api/health
func WithHealth(monitor *health.Monitor, system string) Option {
	return func(g *Gateway) {
		g.health = monitor
		g.system = system
	}
}

// WithCatalog serves the mirrored KV catalog at api/catalog
func WithCatalog(store *catalog.Store) Option {
	return func(g *Gateway) { g.catalog = store }
}

// WithLogger sets the gateway logger
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithConfig sets the gateway config
func WithConfig(cfg Config) Option {
	return func(g *Gateway) { g.config = cfg }
}

// Gateway serves a read-only JSON view of a component registry for inspector UIs
type Gateway struct {
	registry        *component.Registry
	sessions        *session.Manager
	metricsRegistry *metric.MetricsRegistry
	health          *health.Monitor
	catalog         *catalog.Store
	system          string
	config          Config
	logger          *slog.Logger

	requests       *prometheus.CounterVec
	requestsTotal  atomic.Uint64
	requestsFailed atomic.Uint64
}

// New creates a gateway over registry
func New(registry *component.Registry, opts ...Option) *Gateway {
	g := &Gateway{
		registry: registry,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.metricsRegistry != nil {
		g.requests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nova_editor",
			Subsystem: "gateway",
			Name:      "requests_total",
			Help:      "Inspector API requests, by route and status code",
		}, []string{"route", "code"})
		if err := g.metricsRegistry.RegisterCounterVec("gateway", "requests_total", g.requests); err != nil {
			g.logger.Warn("Gateway request metrics disabled", "error", err)
			g.requests = nil
		}
	}
	return g
}

// Handler returns a mux with every gateway route mounted at the root
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	g.RegisterHTTPHandlers("/", mux)
	return mux
}

// RegisterHTTPHandlers mounts the gateway routes under prefix
func (g *Gateway) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	prefix = "/" + strings.Trim(prefix, "/")
	if prefix != "/" {
		prefix += "/"
	}

	g.handle(mux, "GET "+prefix+"api/components", g.handleComponents)
	g.handle(mux, "GET "+prefix+"api/components/addable", g.handleAddable)
	g.handle(mux, "GET "+prefix+"api/components/grouped", g.handleGrouped)
	g.handle(mux, "GET "+prefix+"api/components/{name}", g.handleComponent)
	g.handle(mux, "GET "+prefix+"api/components/{name}/properties", g.handleProperties)
	g.handle(mux, "GET "+prefix+"api/categories/{category}", g.handleCategory)
	g.handle(mux, "GET "+prefix+"api/statistics", g.handleStatistics)

	if g.sessions != nil {
		g.handle(mux, "GET "+prefix+"api/sessions", g.handleListSessions)
		g.handle(mux, "POST "+prefix+"api/sessions", g.handleOpenSession)
		g.handle(mux, "DELETE "+prefix+"api/sessions/{id}", g.handleCloseSession)
	}

	if g.health != nil {
		g.handle(mux, "GET "+prefix+"api/health", g.handleHealth)
	}
	if g.catalog != nil {
		g.handle(mux, "GET "+prefix+"api/catalog", g.handleCatalog)
	}

	if g.config.EnableCORS {
		g.handle(mux, "OPTIONS "+prefix+"api/", g.handlePreflight)
	}

	if g.metricsRegistry != nil && g.config.MetricsPath != "" {
		mux.Handle("GET "+prefix+strings.TrimPrefix(g.config.MetricsPath, "/"), metric.Handler(g.metricsRegistry))
	}
}

// statusRecorder captures the status code for request metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (g *Gateway) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		if g.config.EnableCORS {
			g.applyCORS(w, r)
		}

		g.requestsTotal.Add(1)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)

		if rec.status >= 400 {
			g.requestsFailed.Add(1)
		}
		if g.requests != nil {
			g.requests.WithLabelValues(pattern, strconv.Itoa(rec.status)).Inc()
		}
		g.logger.Debug("Inspector request", "pattern", pattern, "status", rec.status, "request_id", requestID)
	})
}

// Stats returns the request counters
func (g *Gateway) Stats() (total, failed uint64) {
	return g.requestsTotal.Load(), g.requestsFailed.Load()
}

// registryFor picks the session registry named by ?session=, or the default
func (g *Gateway) registryFor(r *http.Request) (*component.Registry, error) {
	id := r.URL.Query().Get("session")
	if id == "" || g.sessions == nil {
		return g.registry, nil
	}
	s, err := g.sessions.Lookup(id)
	if err != nil {
		return nil, err
	}
	return s.Registry, nil
}

func (g *Gateway) withRegistry(w http.ResponseWriter, r *http.Request, fn func(*component.Registry)) {
	registry, err := g.registryFor(r)
	if err != nil {
		g.writeClassifiedError(w, err)
		return
	}
	fn(registry)
}

func (g *Gateway) handleComponents(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		g.writeJSON(w, http.StatusOK, reg.GetAll())
	})
}

func (g *Gateway) handleAddable(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		g.writeJSON(w, http.StatusOK, component.GetAddableComponents(reg))
	})
}

// groupedResponse carries the groups plus a stable iteration order
type groupedResponse struct {
	Categories []string                            `json:"categories"`
	Groups     map[string][]component.Registration `json:"groups"`
}

func (g *Gateway) handleGrouped(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		groups := component.GetComponentsByCategory(reg)
		g.writeJSON(w, http.StatusOK, groupedResponse{
			Categories: component.SortedCategories(groups),
			Groups:     groups,
		})
	})
}

func (g *Gateway) handleCategory(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		g.writeJSON(w, http.StatusOK, reg.GetByCategory(r.PathValue("category")))
	})
}

func (g *Gateway) handleStatistics(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		g.writeJSON(w, http.StatusOK, reg.GetStatistics())
	})
}

// findRegistration resolves a path segment to one registration. Keys are
// tried from most to least specific: numeric type id, import path qualified
// name, package qualified name ("builtin.Transform"), bare type name. A key
// matching several types at its level is ambiguous and yields 409.
func findRegistration(reg *component.Registry, key string) (component.Registration, int) {
	all := reg.GetAll()
	if id, err := strconv.ParseUint(key, 10, 32); err == nil {
		for _, r := range all {
			if uint64(r.ID) == id {
				return r, http.StatusOK
			}
		}
	}

	levels := []func(component.Registration) bool{
		func(r component.Registration) bool { return component.QualifiedName(r.Type) == key },
		func(r component.Registration) bool { return r.Type != nil && r.Type.String() == key },
		func(r component.Registration) bool { return r.Name == key },
	}
	for _, match := range levels {
		var found []component.Registration
		for _, r := range all {
			if match(r) {
				found = append(found, r)
			}
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			return found[0], http.StatusOK
		default:
			return component.Registration{}, http.StatusConflict
		}
	}
	return component.Registration{}, http.StatusNotFound
}

func (g *Gateway) resolve(w http.ResponseWriter, reg *component.Registry, key string) (component.Registration, bool) {
	found, status := findRegistration(reg, key)
	switch status {
	case http.StatusOK:
		return found, true
	case http.StatusConflict:
		g.writeError(w, status, "component name is ambiguous, use the type id or qualified name")
	default:
		g.writeError(w, http.StatusNotFound, "component not found")
	}
	return component.Registration{}, false
}

// componentResponse adds the resolved lookups an inspector renders
type componentResponse struct {
	component.Registration
	Icon       string `json:"icon"`
	Category   string `json:"category"`
	CanAdd     bool   `json:"canAdd"`
	CanRemove  bool   `json:"canRemove"`
	GoTypeName string `json:"goType"`
	Qualified  string `json:"qualifiedType"`
}

func (g *Gateway) handleComponent(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		found, ok := g.resolve(w, reg, r.PathValue("name"))
		if !ok {
			return
		}
		g.writeJSON(w, http.StatusOK, componentResponse{
			Registration: found,
			Icon:         component.GetComponentIcon(reg, found.Type),
			Category:     component.GetComponentCategory(reg, found.Type),
			CanAdd:       component.CanAddComponent(reg, found.Type),
			CanRemove:    component.CanRemoveComponent(reg, found.Type),
			GoTypeName:   found.Type.String(),
			Qualified:    component.QualifiedName(found.Type),
		})
	})
}

// propertiesResponse groups properties by category with a stable order
type propertiesResponse struct {
	Categories []string                            `json:"categories"`
	Groups     map[string][]metadata.PropertyEntry `json:"groups"`
}

func (g *Gateway) handleProperties(w http.ResponseWriter, r *http.Request) {
	g.withRegistry(w, r, func(reg *component.Registry) {
		found, ok := g.resolve(w, reg, r.PathValue("name"))
		if !ok {
			return
		}
		groups := component.GetPropertiesByCategory(reg, found.Type)
		g.writeJSON(w, http.StatusOK, propertiesResponse{
			Categories: component.SortedCategories(groups),
			Groups:     groups,
		})
	})
}

// sessionResponse is the wire form of a session
type sessionResponse struct {
	ID         string `json:"id"`
	CreatedAt  string `json:"createdAt"`
	Components int    `json:"components"`
}

func toSessionResponse(s *session.Session) sessionResponse {
	return sessionResponse{
		ID:         s.ID.String(),
		CreatedAt:  s.CreatedAt.Format(time.RFC3339Nano),
		Components: s.Registry.Len(),
	}
}

func (g *Gateway) handleListSessions(w http.ResponseWriter, _ *http.Request) {
	list := g.sessions.List()
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, toSessionResponse(s))
	}
	g.writeJSON(w, http.StatusOK, out)
}

func (g *Gateway) handleOpenSession(w http.ResponseWriter, _ *http.Request) {
	g.writeJSON(w, http.StatusCreated, toSessionResponse(g.sessions.Open()))
}

func (g *Gateway) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	s, err := g.sessions.Lookup(r.PathValue("id"))
	if err != nil {
		g.writeClassifiedError(w, err)
		return
	}
	if err := g.sessions.Close(s.ID); err != nil {
		g.writeClassifiedError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *Gateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := g.health.Check(r.Context(), g.system)
	code := http.StatusOK
	if status.State == health.StateUnhealthy {
		code = http.StatusServiceUnavailable
	}
	g.writeJSON(w, code, status)
}

func (g *Gateway) handleCatalog(w http.ResponseWriter, r *http.Request) {
	components, err := g.catalog.List(r.Context())
	if err != nil {
		g.writeClassifiedError(w, err)
		return
	}
	g.writeJSON(w, http.StatusOK, components)
}

// handlePreflight answers browser CORS preflights; headers come from applyCORS
func (g *Gateway) handlePreflight(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// applyCORS applies CORS headers to the response
func (g *Gateway) applyCORS(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	for _, allowed := range g.config.CORSOrigins {
		if allowed == "*" || allowed == origin {
			if origin == "" {
				origin = "*"
			}
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "600")
			w.Header().Add("Vary", "Origin")
			return
		}
	}
}

// writeClassifiedError maps an error class to a status and a safe message
func (g *Gateway) writeClassifiedError(w http.ResponseWriter, err error) {
	switch {
	case stderrors.Is(err, errors.ErrSessionNotFound):
		g.writeError(w, http.StatusNotFound, "session not found")
	case errors.IsInvalid(err):
		g.writeError(w, http.StatusBadRequest, "invalid request")
	case errors.IsTransient(err):
		g.writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		g.logger.Error("Inspector request failed", "error", err)
		g.writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func (g *Gateway) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.logger.Warn("Failed to encode response", "error", err)
	}
}

// writeError writes an error response
func (g *Gateway) writeError(w http.ResponseWriter, statusCode int, message string) {
	g.writeJSON(w, statusCode, map[string]any{
		"error":  message,
		"status": statusCode,
	})
}
