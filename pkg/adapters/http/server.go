package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aretw0/cascade/internal/logging"
	"github.com/aretw0/cascade/internal/presentation/graph"
	"github.com/aretw0/cascade/pkg/domain"
	"github.com/aretw0/cascade/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed openapi.yaml
var rawSpec []byte

// Engine is the part of cascade.Engine the HTTP adapter drives.
type Engine interface {
	ports.Engine
	graph.RuleSource
	Describe(id domain.EntityID) (domain.EntitySnapshot, bool)
	Changes(since uint64) []domain.AttributeChange
}

// Server serves one engine.
type Server struct {
	Engine   Engine
	logger   *slog.Logger
	gatherer prometheus.Gatherer
	version  string
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics exposes the gatherer on GET /metrics.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewHandler creates a new HTTP handler for the engine. Requests to the
// documented routes are validated against the embedded OpenAPI document.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:  engine,
		logger:  logging.NewNop(),
		version: "dev",
	}
	for _, opt := range opts {
		opt(s)
	}

	validate, err := requestValidator(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("failed to load api spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(validate)
		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)
		r.Post("/trigger", s.Trigger)
		r.Post("/press", s.Press)
		r.Post("/release", s.Release)
		r.Post("/tick", s.Tick)
		r.Get("/entities", s.ListEntities)
		r.Get("/entities/{id}", s.GetEntity)
		r.Get("/graph", s.GetGraph)
	})
	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Cascade API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"app":         "cascade-http",
		"version":     s.version,
		"api_version": "0.1.0",
	})
}

// Trigger handles POST /trigger.
func (s *Server) Trigger(w http.ResponseWriter, r *http.Request) {
	var body TriggerRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := s.entity(body.EntityRef)
	if !ok {
		http.Error(w, "Unknown entity", http.StatusNotFound)
		return
	}

	batch, err := s.Engine.Trigger(r.Context(), domain.Signal{Entity: id, Kind: domain.TriggerKind(body.Kind), Delta: body.Delta})
	if err != nil {
		http.Error(w, fmt.Sprintf("Trigger error: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, batch)
}

// Press handles POST /press.
func (s *Server) Press(w http.ResponseWriter, r *http.Request) {
	var body EntityRef
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id, ok := s.entity(body)
	if !ok {
		http.Error(w, "Unknown entity", http.StatusNotFound)
		return
	}
	s.Engine.Press(id)
	w.WriteHeader(http.StatusNoContent)
}

// Release handles POST /release.
func (s *Server) Release(w http.ResponseWriter, r *http.Request) {
	s.Engine.Release()
	w.WriteHeader(http.StatusNoContent)
}

// Tick handles POST /tick.
func (s *Server) Tick(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Tick(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("Tick error: %v", err), http.StatusInternalServerError)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, mapReportFromDomain(report))
}

// ListEntities handles GET /entities.
func (s *Server) ListEntities(w http.ResponseWriter, r *http.Request) {
	snaps := s.Engine.Inspect()
	out := make([]Entity, len(snaps))
	for i, snap := range snaps {
		out[i] = mapEntityFromDomain(snap)
	}
	s.writeJSON(r.Context(), w, http.StatusOK, out)
}

// GetEntity handles GET /entities/{id}. The id is a numeric handle or a name.
func (s *Server) GetEntity(w http.ResponseWriter, r *http.Request) {
	var ref string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &ref,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter id: %v", err), http.StatusBadRequest)
		return
	}

	var id domain.EntityID
	if n, err := strconv.ParseUint(ref, 10, 64); err == nil {
		id = domain.EntityID(n)
	} else if id, _ = s.Engine.Resolve(ref); id == 0 {
		http.Error(w, "Unknown entity", http.StatusNotFound)
		return
	}

	snap, ok := s.Engine.Describe(id)
	if !ok {
		http.Error(w, "Unknown entity", http.StatusNotFound)
		return
	}
	s.writeJSON(r.Context(), w, http.StatusOK, mapEntityFromDomain(snap))
}

// GetGraph handles GET /graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	var since *int64
	if err := runtime.BindQueryParameter("form", true, false, "since", r.URL.Query(), &since); err != nil {
		http.Error(w, fmt.Sprintf("Invalid format for parameter since: %v", err), http.StatusBadRequest)
		return
	}

	var overlay *graph.GraphOverlay
	if since != nil {
		overlay = &graph.GraphOverlay{}
		for _, c := range s.Engine.Changes(uint64(max(*since, 0))) {
			overlay.Changed = append(overlay.Changed, c.Entity)
		}
	}

	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.Engine.Inspect(), graph.Edges(s.Engine), overlay)))
}

// -- Helpers --

func (s *Server) entity(ref EntityRef) (domain.EntityID, bool) {
	if ref.Name != "" {
		return s.Engine.Resolve(ref.Name)
	}
	if ref.Entity == 0 {
		return 0, false
	}
	_, ok := s.Engine.Describe(domain.EntityID(ref.Entity))
	return domain.EntityID(ref.Entity), ok
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.ErrorContext(ctx, "encode response", "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.DebugContext(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path, "status", ww.Status())
	})
}
