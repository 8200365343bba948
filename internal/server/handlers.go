package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/vesselworks/graftplan/pkg/errors"
	"github.com/vesselworks/graftplan/pkg/graft"
	"github.com/vesselworks/graftplan/pkg/render/sink"
	"github.com/vesselworks/graftplan/pkg/session"
)

type createSessionRequest struct {
	Device string `json:"device"`
}

type addFenestrationRequest struct {
	Vessel     string  `json:"vessel"`
	DistanceMM float64 `json:"distance_mm"`
	ClockHour  int     `json:"clock_hour"`
	DiameterMM float64 `json:"diameter_mm"`
}

type sessionResponse struct {
	ID        string      `json:"id"`
	Plan      graft.State `json:"plan"`
	ExpiresAt string      `json:"expires_at"`
}

func sessionToResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Plan:      sess.Plan,
		ExpiresAt: sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Devices())
}

func (s *Server) handleVessels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cat.Vessels())
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	device, err := s.cat.Device(req.Device)
	if err != nil {
		s.writeError(w, err)
		return
	}
	spec, err := graft.SpecFromDevice(device)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess := session.New(graft.NewPlan(spec), s.ttl)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}

	s.logger.Info("session created", "session", sess.ID, "device", device.Key)
	writeJSON(w, http.StatusCreated, sessionToResponse(sess))
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// withPlan resolves the session named in the URL, rebuilds its plan, applies
// fn, and persists the mutated snapshot. fn returning an error aborts the
// write, so a rejected command leaves the stored session untouched.
func (s *Server) withPlan(w http.ResponseWriter, r *http.Request, fn func(p *graft.Plan) error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	plan, err := graft.FromState(sess.Plan)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := fn(plan); err != nil {
		s.writeError(w, err)
		return
	}

	sess.Plan = plan.State()
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionToResponse(sess))
}

func (s *Server) handleAddFenestration(w http.ResponseWriter, r *http.Request) {
	var req addFenestrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	vessel, err := s.cat.Vessel(req.Vessel)
	if err != nil {
		s.writeError(w, err)
		return
	}
	hour, err := graft.HourFromInt(req.ClockHour)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.withPlan(w, r, func(p *graft.Plan) error {
		return p.AddFenestration(graft.Fenestration{
			Vessel:     vessel,
			DistanceMM: req.DistanceMM,
			Hour:       hour,
			DiameterMM: req.DiameterMM,
		})
	})
}

func (s *Server) handleRemoveFenestration(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidIndex, "fenestration index must be an integer"))
		return
	}
	s.withPlan(w, r, func(p *graft.Plan) error {
		return p.RemoveFenestration(idx)
	})
}

func (s *Server) handleClearFenestrations(w http.ResponseWriter, r *http.Request) {
	s.withPlan(w, r, func(p *graft.Plan) error {
		p.ClearFenestrations()
		return nil
	})
}

// loadPlan resolves the session and rebuilds its plan for read-only renders.
func (s *Server) loadPlan(r *http.Request) (*graft.Plan, error) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	return graft.FromState(sess.Plan)
}

func previewOptions(r *http.Request) ([]sink.PreviewOption, error) {
	raw := r.URL.Query().Get("scale")
	if raw == "" {
		return nil, nil
	}
	scale, err := strconv.ParseFloat(raw, 64)
	if err != nil || scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be a positive number, got %q", raw)
	}
	return []sink.PreviewOption{sink.WithPreviewScale(scale)}, nil
}

func (s *Server) handlePreviewSVG(w http.ResponseWriter, r *http.Request) {
	plan, err := s.loadPlan(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := previewOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := sink.RenderPreviewSVG(plan, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handlePreviewPNG(w http.ResponseWriter, r *http.Request) {
	plan, err := s.loadPlan(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts, err := previewOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	png, err := sink.RenderPreviewPNG(plan, opts...)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) handleDocumentSVG(w http.ResponseWriter, r *http.Request) {
	plan, err := s.loadPlan(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	svg, err := sink.RenderDocumentSVG(plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(svg)
}

func (s *Server) handleDocumentPDF(w http.ResponseWriter, r *http.Request) {
	plan, err := s.loadPlan(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdf, err := sink.RenderPDF(plan)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", sink.Filename(plan.Spec())))
	_, _ = w.Write(pdf)
}
