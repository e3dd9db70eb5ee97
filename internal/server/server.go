// Package server exposes the breadcrumb pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness check
//	GET  /version                 build information as JSON
//	GET  /stats                   event counters, when Stats is set
//	POST /v1/breadcrumb           render a node collection sent as JSON params
//	GET  /v1/breadcrumb?path=...  render against the configured node source;
//	                              without path the source must be one chain
//
// Rendered content is returned verbatim with a content type derived from
// the template name. A current path that matches no node yields 204 No
// Content. Errors are JSON objects carrying the error code.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/crumbtrail/pkg/buildinfo"
	crumberrors "github.com/matzehuels/crumbtrail/pkg/errors"
	"github.com/matzehuels/crumbtrail/pkg/observability"
	"github.com/matzehuels/crumbtrail/pkg/pipeline"
	"github.com/matzehuels/crumbtrail/pkg/render"
	"github.com/matzehuels/crumbtrail/pkg/source"
)

// maxBodyBytes bounds POST bodies.
const maxBodyBytes = 8 << 20

// Defaults fill request fields the caller left empty.
type Defaults struct {
	URLPrefix string
	Connector string
	Template  string
}

// Server serves breadcrumb content.
type Server struct {
	Runner   *pipeline.Runner[source.ID]
	Source   source.Source[source.ID] // nil disables GET /v1/breadcrumb
	Defaults Defaults
	Logger   *log.Logger
	Stats    *observability.Counters // nil disables GET /stats
}

// New creates a server. A nil logger means log.Default().
func New(runner *pipeline.Runner[source.ID], src source.Source[source.ID], defaults Defaults, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{Runner: runner, Source: src, Defaults: defaults, Logger: logger}
}

// Handler returns the HTTP handler with all routes and middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildinfo.Get())
	})
	if s.Stats != nil {
		r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(s.Stats.Snapshot())
		})
	}

	r.Route("/v1/breadcrumb", func(r chi.Router) {
		r.Post("/", s.handleRender)
		if s.Source != nil {
			r.Get("/", s.handleLookup)
		}
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.Logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var p pipeline.Params[source.ID]
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&p); err != nil {
		s.writeError(w, r, crumberrors.Wrap(crumberrors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}
	s.applyDefaults(&p, false)
	s.respond(w, r, p)
}

func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	path := q.Get("path")
	if err := crumberrors.ValidateCurrentPath(path); err != nil {
		s.writeError(w, r, err)
		return
	}

	nodes, err := s.Source.Load(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	p := pipeline.Params[source.ID]{
		Nodes:       nodes,
		CurrentPath: path,
		URLPrefix:   q.Get("url_prefix"),
		Connector:   q.Get("connector"),
		Template:    q.Get("template"),
		Refresh:     q.Has("refresh"),
	}
	s.applyDefaults(&p, true)
	s.respond(w, r, p)
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, p pipeline.Params[source.ID]) {
	p.Logger = loggerFromRequest(r, s.Logger)

	res, err := s.Runner.Execute(r.Context(), p)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if res.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	if res.Content == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", contentType(p.Template))
	_, _ = w.Write([]byte(res.Content))
}

// applyDefaults fills empty fields. The template is only defaulted for
// lookups; a POST without a template is a usage error.
func (s *Server) applyDefaults(p *pipeline.Params[source.ID], withTemplate bool) {
	if p.URLPrefix == "" {
		p.URLPrefix = s.Defaults.URLPrefix
	}
	if p.Connector == "" {
		p.Connector = s.Defaults.Connector
	}
	if withTemplate && p.Template == "" {
		p.Template = s.Defaults.Template
	}
}

// =============================================================================
// Responses
// =============================================================================

type errorBody struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	code := crumberrors.GetCode(err)
	if code == "" {
		code = crumberrors.ErrCodeInternal
	}

	logger := loggerFromRequest(r, s.Logger)
	if status >= 500 {
		logger.Error("request failed", "error", err)
	} else {
		logger.Debug("request rejected", "error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{
		Error:     string(code),
		Message:   crumberrors.UserMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	})
}

// StatusFor maps an error to an HTTP status: usage and structure errors
// are 400, a missing template is 404, anything else is 500.
func StatusFor(err error) int {
	switch code := crumberrors.GetCode(err); {
	case code == crumberrors.ErrCodeTemplateNotFound:
		return http.StatusNotFound
	case crumberrors.IsUsage(err):
		return http.StatusBadRequest
	case code == crumberrors.ErrCodeUnsupported:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func contentType(template string) string {
	switch {
	case template == render.NameJSON:
		return "application/json"
	case template == render.NameSVG:
		return "image/svg+xml"
	case strings.HasSuffix(template, ".html.tmpl"), strings.HasSuffix(template, ".html"):
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}
