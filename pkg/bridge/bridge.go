// Package bridge serves annotation commands over HTTP.
//
// A panel or plugin host posts the current scene to a command endpoint and
// receives the rendered annotations:
//
//	GET  /health
//	GET  /commands
//	POST /commands/{id}?format=json|svg|png|pdf&refresh=true
//
// The {id} segment accepts a host identifier, label or slug, e.g.
// "horizontal-fixed". Errors are returned as {"code","message"} with a
// status derived from the error code.
package bridge

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spacemark/pkg/buildinfo"
	"github.com/matzehuels/spacemark/pkg/command"
	"github.com/matzehuels/spacemark/pkg/errors"
	"github.com/matzehuels/spacemark/pkg/pipeline"
	"github.com/matzehuels/spacemark/pkg/scene"
)

const (
	// MaxBodySize bounds scene uploads.
	MaxBodySize = 8 << 20
	// RequestIDHeader carries the per-request ID.
	RequestIDHeader = "X-Request-ID"
	// WarningHeader carries a non-fatal selection message.
	WarningHeader = "X-Spacemark-Warning"
)

var contentTypes = map[string]string{
	pipeline.FormatJSON: "application/json",
	pipeline.FormatSVG:  "image/svg+xml",
	pipeline.FormatPNG:  "image/png",
	pipeline.FormatPDF:  "application/pdf",
}

// Server runs pipeline commands for HTTP clients.
type Server struct {
	runner   *pipeline.Runner
	defaults pipeline.Options
	logger   *log.Logger
}

// New creates a server. defaults supplies palette, scale and concurrency for
// every request; its Command and Formats are ignored.
func New(runner *pipeline.Runner, defaults pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	return &Server{runner: runner, defaults: defaults, logger: logger.WithPrefix("bridge")}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/commands", s.listCommands)
	r.Post("/commands/{id}", s.runCommand)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type healthResponse struct {
	OK      bool   `json:"ok"`
	Service string `json:"service"`
	Version string `json:"version"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{OK: true, Service: "spacemark", Version: buildinfo.Version})
}

// CommandInfo describes one command for clients.
type CommandInfo struct {
	ID    string `json:"id"`
	Slug  string `json:"slug"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
	Axis  string `json:"axis"`
	Style string `json:"style"`
}

func (s *Server) listCommands(w http.ResponseWriter, _ *http.Request) {
	specs := command.All()
	out := make([]CommandInfo, len(specs))
	for i, sp := range specs {
		out[i] = CommandInfo{
			ID:    sp.ID(),
			Slug:  sp.Slug(),
			Label: sp.Label,
			Kind:  sp.Kind.String(),
			Axis:  sp.Axis.String(),
			Style: sp.Style.String(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) runCommand(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.DefaultFormat
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	doc, err := scene.Decode(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := s.defaults
	opts.Command = chi.URLParam(r, "id")
	opts.Formats = []string{format}
	opts.Refresh = refresh
	opts.Logger = s.logger.With("request_id", RequestID(r.Context()))

	result, err := s.runner.Execute(r.Context(), doc, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if result.Warning != "" {
		w.Header().Set(WarningHeader, result.Warning)
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(result.Artifacts[format])
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", RequestID(r.Context()), "err", err)
	}
	writeJSON(w, status, ErrorResponse{Code: code, Message: errors.UserMessage(err)})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidCommand, errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidScene,
		errors.ErrCodeInvalidAxis, errors.ErrCodeInvalidStyle, errors.ErrCodeInvalidConfig,
		errors.ErrCodeInvalidManifest:
		return http.StatusBadRequest
	case errors.ErrCodeEmptySelection, errors.ErrCodeNoArtboard, errors.ErrCodeLayerNotAllowed,
		errors.ErrCodeMultipleSelection:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNetwork:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
