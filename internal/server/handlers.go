package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/render/sink"
	"github.com/matzehuels/cardstack/pkg/session"
)

const maxGeneratedItems = 10000

// deckResponse is the body of every deck endpoint.
type deckResponse struct {
	ID       string        `json:"id"`
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Snapshot deck.Snapshot `json:"snapshot"`
}

func respond(sess *session.Session, d *deck.Deck) deckResponse {
	w, h := d.Size()
	return deckResponse{ID: sess.ID, Width: w, Height: h, Snapshot: d.Snapshot()}
}

// clock converts an optional client timestamp to deck time.
func clock(ms *float64, sess *session.Session) time.Duration {
	if ms == nil {
		return sess.Clock()
	}
	return time.Duration(*ms * float64(time.Millisecond))
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "decks": s.store.Len()})
}

type createRequest struct {
	Width   int          `json:"width"`
	Height  int          `json:"height"`
	Handles []string     `json:"handles"`
	Count   int          `json:"count"`
	Config  *deck.Config `json:"config"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Deck
	req := createRequest{
		Width:  s.cfg.Viewport.Width,
		Height: s.cfg.Viewport.Height,
		Config: &cfg,
	}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Config == nil {
		req.Config = &cfg
	}
	if err := req.Config.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errs.ValidateViewport(req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}
	handles, err := createHandles(req.Handles, req.Count)
	if err != nil {
		s.writeError(w, err)
		return
	}

	d := deck.New(*req.Config, deck.WithLogger(s.logger))
	sess, err := s.store.Create(r.Context(), d)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var resp deckResponse
	sess.Do(func(d *deck.Deck) {
		d.OnResize(req.Width, req.Height)
		d.OnItemsChanged(handles)
		resp = respond(sess, d)
	})
	s.logger.Debug("Deck created", "id", sess.ID, "items", len(handles))

	w.Header().Set("Location", "/decks/"+sess.ID)
	writeJSON(w, http.StatusCreated, resp)
}

func createHandles(names []string, count int) ([]deck.Handle, error) {
	if len(names) > 0 && count > 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "handles and count are mutually exclusive")
	}
	if count < 0 || count > maxGeneratedItems {
		return nil, errs.New(errs.ErrCodeInvalidInput, "count must be in [0, %d], got %d", maxGeneratedItems, count)
	}
	if count > 0 {
		out := make([]deck.Handle, count)
		for i := range out {
			out[i] = deck.Handle(fmt.Sprintf("card-%d", i+1))
		}
		return out, nil
	}
	return toHandles(names)
}

func toHandles(names []string) ([]deck.Handle, error) {
	out := make([]deck.Handle, len(names))
	for i, n := range names {
		if err := errs.ValidateHandle(n); err != nil {
			return nil, err
		}
		out[i] = deck.Handle(n)
	}
	return out, nil
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var resp deckResponse
	sess.Do(func(d *deck.Deck) { resp = respond(sess, d) })
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.lookup(w, r); !ok {
		return
	}
	s.store.Delete(r.Context(), id)
	s.logger.Debug("Deck deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type resizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req resizeRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errs.ValidateViewport(req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}
	var resp deckResponse
	sess.Do(func(d *deck.Deck) {
		d.OnResize(req.Width, req.Height)
		resp = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

type itemsRequest struct {
	Handles []string `json:"handles"`
	Handle  string   `json:"handle"`
}

// handleItems replaces the item list, or appends one item.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req itemsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		handles []deck.Handle
		err     error
	)
	switch {
	case req.Handle != "" && req.Handles != nil:
		err = errs.New(errs.ErrCodeInvalidInput, "handle and handles are mutually exclusive")
	case req.Handle != "":
		err = errs.ValidateHandle(req.Handle)
	case req.Handles != nil:
		handles, err = toHandles(req.Handles)
	default:
		err = errs.New(errs.ErrCodeInvalidInput, "expected handle or handles")
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	var resp deckResponse
	sess.Do(func(d *deck.Deck) {
		if req.Handle != "" {
			d.AddItem(deck.Handle(req.Handle))
		} else {
			d.OnItemsChanged(handles)
		}
		resp = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	h := chi.URLParam(r, "handle")
	if err := errs.ValidateHandle(h); err != nil {
		s.writeError(w, err)
		return
	}

	var (
		removed bool
		resp    deckResponse
	)
	sess.Do(func(d *deck.Deck) {
		removed = d.RemoveItem(deck.Handle(h))
		resp = respond(sess, d)
	})
	if !removed {
		s.writeError(w, errs.New(errs.ErrCodeNotFound, "item %q not in deck", h))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type touchRequest struct {
	Action string   `json:"action"`
	Pos    float64  `json:"pos"`
	TimeMS *float64 `json:"t_ms"`
}

type touchResponse struct {
	deckResponse
	Claimed bool        `json:"claimed"`
	Tapped  deck.Handle `json:"tapped,omitempty"`
}

// handleTouch feeds one pointer event. An unclaimed release reports the
// card under the pointer as tapped.
func (s *Server) handleTouch(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req touchRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	switch req.Action {
	case "press", "move", "release":
	default:
		s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "unknown touch action %q (want press, move or release)", req.Action))
		return
	}

	var resp touchResponse
	sess.Do(func(d *deck.Deck) {
		t := clock(req.TimeMS, sess)
		switch req.Action {
		case "press":
			d.TouchDown(req.Pos, t)
			resp.Claimed = d.Claimed()
		case "move":
			resp.Claimed = d.TouchMove(req.Pos, t)
		case "release":
			resp.Claimed = d.TouchUp(req.Pos, t)
			if !resp.Claimed {
				resp.Tapped, _ = d.ItemAt(req.Pos)
			}
		}
		resp.deckResponse = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

type flingRequest struct {
	Velocity float64 `json:"velocity"`
}

type flingResponse struct {
	deckResponse
	Accepted bool `json:"accepted"`
}

func (s *Server) handleFling(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req flingRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var resp flingResponse
	sess.Do(func(d *deck.Deck) {
		resp.Accepted = d.Fling(req.Velocity)
		resp.deckResponse = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

type tickRequest struct {
	TimeMS *float64 `json:"t_ms"`
}

type tickResponse struct {
	deckResponse
	Animating bool `json:"animating"`
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req tickRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var resp tickResponse
	sess.Do(func(d *deck.Deck) {
		d.Tick(clock(req.TimeMS, sess))
		resp.Animating = d.Animating()
		resp.deckResponse = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

type clearResponse struct {
	deckResponse
	Started bool `json:"started"`
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var resp clearResponse
	sess.Do(func(d *deck.Deck) {
		resp.Started = d.ClearAll()
		resp.deckResponse = respond(sess, d)
	})
	writeJSON(w, http.StatusOK, resp)
}

var contentTypes = map[string]string{
	sink.FormatJSON: "application/json",
	sink.FormatSVG:  "image/svg+xml",
	sink.FormatText: "text/plain; charset=utf-8",
	sink.FormatPNG:  "image/png",
	sink.FormatPDF:  "application/pdf",
}

// handleRender draws the current frame. Artifacts are cached per deck,
// keyed by the snapshot content.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	rc := s.cfg.Render
	format := r.URL.Query().Get("format")
	if format == "" {
		format = rc.Format
	}
	if err := config.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	style := r.URL.Query().Get("style")
	if style == "" {
		style = rc.Style
	}
	if _, err := sink.StyleByName(style); err != nil {
		s.writeError(w, err)
		return
	}
	scale := rc.Scale
	if v := r.URL.Query().Get("scale"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f <= 0 {
			s.writeError(w, errs.New(errs.ErrCodeInvalidInput, "scale must be a positive number, got %q", v))
			return
		}
		scale = f
	}

	var scene sink.Scene
	sess.Do(func(d *deck.Deck) {
		width, height := d.Size()
		scene = sink.Scene{
			Width:       width,
			Height:      height,
			Orientation: d.Config().Orientation,
			CardPadding: rc.CardPadding,
			Frames:      []deck.Snapshot{d.Snapshot()},
		}
	})

	frames, err := json.Marshal(scene)
	if err != nil {
		s.writeError(w, errs.Wrap(errs.ErrCodeInternal, err, "encode scene"))
		return
	}
	keyer := cache.NewScopedKeyer(nil, "deck:"+sess.ID+":")
	key := keyer.ArtifactKey(cache.Hash(frames), cache.ArtifactKeyOpts{
		Format: format,
		Style:  style,
		Scale:  scale,
	})

	out, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Cache read failed", "key", key, "error", err)
	}
	if !hit {
		out, err = sink.Render(ctx, format, scene, sink.Options{Style: style, Scale: scale, Columns: 1})
		if err != nil {
			s.writeError(w, err)
			return
		}
		if err := s.cache.Set(ctx, key, out, s.cfg.Server.SessionTTL); err != nil {
			s.logger.Warn("Cache write failed", "key", key, "error", err)
		}
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}
