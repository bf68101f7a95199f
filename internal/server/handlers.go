package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/wikicollage/pkg/board"
	"github.com/matzehuels/wikicollage/pkg/collage"
	"github.com/matzehuels/wikicollage/pkg/errors"
	"github.com/matzehuels/wikicollage/pkg/pipeline"
)

//go:embed static/index.html
var indexHTML []byte

const maxBodyBytes = 1 << 16

type fetchRequest struct {
	Viewport   *collage.Viewport `json:"viewport"`
	PanelWidth *float64          `json:"panel_width"`
}

type fetchResponse struct {
	Session string          `json:"session"`
	State   pipeline.State  `json:"state"`
	Stats   *pipeline.Stats `json:"stats,omitempty"`
}

type scaleRequest struct {
	Bound string   `json:"bound"`
	Value *float64 `json:"value"`
}

type imagesResponse struct {
	State pipeline.State `json:"state"`
	Items []board.Item   `json:"items"`
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if _, err := s.session(w, r); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := sess.Snapshot(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	items, err := sess.Items(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if items == nil {
		items = []board.Item{}
	}
	writeJSON(w, http.StatusOK, imagesResponse{State: sess.State(), Items: items})
}

// handleFetch starts one batch. By default the batch runs detached from the
// request and the response is 202; ?wait=1 runs it inline and reports stats.
func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	item, err := sess.Item(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req fetchRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Viewport != nil || req.PanelWidth != nil {
		snap, err := sess.Snapshot(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		vp, panel := snap.Viewport, snap.PanelWidth
		if req.Viewport != nil {
			vp = *req.Viewport
		}
		if req.PanelWidth != nil {
			panel = *req.PanelWidth
		}
		if err := sess.SetViewport(vp, panel); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	if r.URL.Query().Get("wait") == "1" {
		res, err := sess.FetchMore(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, fetchResponse{Session: sess.ID(), State: sess.State(), Stats: &res.Stats})
		return
	}

	ctx := context.WithoutCancel(r.Context())
	go func() {
		// Failures are already logged by the runner.
		_, _ = sess.FetchMore(ctx)
	}()
	writeJSON(w, http.StatusAccepted, fetchResponse{Session: sess.ID(), State: pipeline.Loading})
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	n, err := sess.ClearAll(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.logger.Debug("board cleared", "session", sess.ID(), "removed", n)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleScale(w http.ResponseWriter, r *http.Request) {
	sess, err := s.session(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var req scaleRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Value == nil {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "value is required"))
		return
	}

	var rng collage.ScaleRange
	switch req.Bound {
	case "min":
		rng, err = sess.SetMinScale(*req.Value)
	case "max":
		rng, err = sess.SetMaxScale(*req.Value)
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "bound must be min or max, got %q", req.Bound)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rng)
}

// decodeJSON reads an optional JSON body. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
