// Package server exposes the planning core over HTTP.
//
// Each client session is an independent plan held in a session store; no
// mutable state is shared between sessions. The handlers are thin: they
// resolve the session, apply one command or query on the plan, and write
// the snapshot back. All domain rules live in the core packages.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vesselworks/graftplan/pkg/catalog"
	"github.com/vesselworks/graftplan/pkg/errors"
	"github.com/vesselworks/graftplan/pkg/session"
)

// Server wires the catalogs, the session store, and the render sinks into
// an HTTP API.
type Server struct {
	store  session.Store
	cat    *catalog.Catalog
	logger *log.Logger
	ttl    time.Duration
}

// New creates a server backed by the given session store and catalogs.
func New(store session.Store, cat *catalog.Catalog, logger *log.Logger) *Server {
	return &Server{
		store:  store,
		cat:    cat,
		logger: logger,
		ttl:    session.DefaultTTL,
	}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/devices", s.handleDevices)
		r.Get("/vessels", s.handleVessels)

		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleDeleteSession)

			r.Post("/fenestrations", s.handleAddFenestration)
			r.Delete("/fenestrations", s.handleClearFenestrations)
			r.Delete("/fenestrations/{index}", s.handleRemoveFenestration)

			r.Get("/preview.svg", s.handlePreviewSVG)
			r.Get("/preview.png", s.handlePreviewPNG)
			r.Get("/template.svg", s.handleDocumentSVG)
			r.Get("/template.pdf", s.handleDocumentPDF)
		})
	})

	return r
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// statusFor maps structured error codes onto HTTP status codes.
func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDevice, errors.ErrCodeInvalidVessel,
		errors.ErrCodeInvalidDistance, errors.ErrCodeInvalidDiameter, errors.ErrCodeInvalidClock,
		errors.ErrCodeInvalidIndex:
		return http.StatusBadRequest
	case errors.ErrCodeSpacingConflict:
		return http.StatusConflict
	case errors.ErrCodeEmptyLayout:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeSessionNotFound:
		return http.StatusNotFound
	case errors.ErrCodeSessionExpired:
		return http.StatusGone
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := statusFor(code)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "err", err)
	}

	var body errorBody
	body.Error.Code = string(code)
	body.Error.Message = errors.UserMessage(err)
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
