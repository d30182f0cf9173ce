package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/schemahub/registry/internal/api/facade"
	"github.com/schemahub/registry/internal/api/http/handlers"
	"github.com/schemahub/registry/internal/api/http/middleware"
	"github.com/schemahub/registry/internal/logger"
	"github.com/schemahub/registry/internal/metrics"
	"github.com/schemahub/registry/internal/storage"
)

// Router manages HTTP routes and middleware
type Router struct {
	mux            *http.ServeMux
	backend        *storage.Backend
	schemaHandlers *handlers.SchemaHandlers
	apiMetrics     *metrics.APIMetrics
}

// NewRouter creates a new router. apiMetrics may be nil when metrics
// are disabled.
func NewRouter(f *facade.Facade, backend *storage.Backend, apiMetrics *metrics.APIMetrics) *Router {
	r := &Router{
		mux:            http.NewServeMux(),
		backend:        backend,
		schemaHandlers: handlers.NewSchemaHandlers(f),
		apiMetrics:     apiMetrics,
	}

	r.setupRoutes()

	return r
}

// setupRoutes sets up all HTTP routes
func (r *Router) setupRoutes() {
	// Create middleware chain
	chain := middleware.Chain(
		middleware.Recovery(logger.WithComponent("http.middleware")),
		middleware.RequestID(),
		middleware.Logging(logger.WithComponent("http.middleware")),
		middleware.Metrics(r.apiMetrics, endpointPattern),
	)

	// Health check endpoints
	r.mux.Handle("/health", chain(http.HandlerFunc(handlers.HealthCheck)))
	r.mux.Handle("/ready", chain(handlers.ReadinessCheck(r.backend)))

	// Schema registry API endpoints
	r.mux.Handle("/api/v1/", chain(http.HandlerFunc(r.handleSchemaRoutes)))
}

// handleSchemaRoutes routes schema registry requests. Two path shapes
// are accepted, with and without an explicit namespace context:
//
//	/api/v1/schemas[/{id}[/versions[/{version}]]]
//	/api/v1/contexts/{namespace}/schemas[/{id}[/versions[/{version}]]]
func (r *Router) handleSchemaRoutes(w http.ResponseWriter, req *http.Request) {
	namespace, rest, ok := splitSchemaPath(req.URL.Path)
	if !ok {
		handlers.WriteError(w, http.StatusNotFound, "no such route")
		return
	}

	switch len(rest) {
	case 1: // schemas
		if req.Method == http.MethodPut {
			r.schemaHandlers.Create(w, req, namespace)
			return
		}

	case 2: // schemas/{id}
		id := rest[1]
		switch req.Method {
		case http.MethodPost:
			r.schemaHandlers.Upload(w, req, namespace, id)
			return
		case http.MethodGet:
			r.schemaHandlers.Get(w, req, namespace, id)
			return
		case http.MethodDelete:
			r.schemaHandlers.Delete(w, req, namespace, id)
			return
		}

	case 3: // schemas/{id}/versions
		if rest[2] != "versions" {
			handlers.WriteError(w, http.StatusNotFound, "no such route")
			return
		}
		if req.Method == http.MethodGet {
			r.schemaHandlers.ListVersions(w, req, namespace, rest[1])
			return
		}

	case 4: // schemas/{id}/versions/{version}
		if rest[2] != "versions" {
			handlers.WriteError(w, http.StatusNotFound, "no such route")
			return
		}
		version, err := strconv.ParseInt(rest[3], 10, 64)
		if err != nil || version <= 0 {
			handlers.WriteError(w, http.StatusBadRequest, "version must be a positive integer")
			return
		}
		switch req.Method {
		case http.MethodGet:
			r.schemaHandlers.GetVersion(w, req, namespace, rest[1], version)
			return
		case http.MethodDelete:
			r.schemaHandlers.DeleteVersion(w, req, namespace, rest[1], version)
			return
		}

	default:
		handlers.WriteError(w, http.StatusNotFound, "no such route")
		return
	}

	handlers.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// splitSchemaPath strips the API prefix and the optional namespace
// context, returning the remaining segments starting at "schemas"
func splitSchemaPath(path string) (namespace string, rest []string, ok bool) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 3 || segments[0] != "api" || segments[1] != "v1" {
		return "", nil, false
	}

	rest = segments[2:]
	if rest[0] == "contexts" {
		if len(rest) < 3 {
			return "", nil, false
		}
		namespace = rest[1]
		rest = rest[2:]
	}

	if rest[0] != "schemas" {
		return "", nil, false
	}
	return namespace, rest, true
}

// endpointPattern maps a request path onto a bounded metrics label
func endpointPattern(req *http.Request) string {
	_, rest, ok := splitSchemaPath(req.URL.Path)
	if !ok {
		switch req.URL.Path {
		case "/health", "/ready":
			return req.URL.Path
		}
		return "unknown"
	}

	switch len(rest) {
	case 1:
		return "/api/v1/schemas"
	case 2:
		return "/api/v1/schemas/{id}"
	case 3:
		return "/api/v1/schemas/{id}/versions"
	case 4:
		return "/api/v1/schemas/{id}/versions/{version}"
	}
	return "unknown"
}
