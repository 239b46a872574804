package sink

import (
	"encoding/json"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// JSONOption configures [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	visibleOnly bool
	every       int
	compact     bool
}

// WithJSONVisibleOnly drops hidden placements from every frame.
func WithJSONVisibleOnly() JSONOption { return func(r *jsonRenderer) { r.visibleOnly = true } }

// WithJSONEvery keeps every n-th frame (and the last one).
func WithJSONEvery(n int) JSONOption { return func(r *jsonRenderer) { r.every = n } }

// WithJSONCompact disables indentation.
func WithJSONCompact() JSONOption { return func(r *jsonRenderer) { r.compact = true } }

type jsonOutput struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Orientation string      `json:"orientation"`
	CardPadding int         `json:"card_padding"`
	Frames      []jsonFrame `json:"frames"`
}

type jsonFrame struct {
	TimeMS  float64          `json:"time_ms"`
	State   string           `json:"state"`
	Metrics deck.Metrics     `json:"metrics"`
	Plan    []deck.Placement `json:"plan"`
}

// RenderJSON exports the scene. Times are in milliseconds.
func RenderJSON(s Scene, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	frames := sample(s.Frames, r.every)
	out := jsonOutput{
		Width:       s.Width,
		Height:      s.Height,
		Orientation: s.Orientation.String(),
		CardPadding: s.CardPadding,
		Frames:      make([]jsonFrame, len(frames)),
	}
	for i, f := range frames {
		plan := f.Plan
		if r.visibleOnly {
			plan = make([]deck.Placement, 0, len(f.Plan))
			for _, p := range f.Plan {
				if p.Visible {
					plan = append(plan, p)
				}
			}
		}
		out.Frames[i] = jsonFrame{
			TimeMS:  float64(f.Time.Microseconds()) / 1000,
			State:   f.State,
			Metrics: f.Metrics,
			Plan:    plan,
		}
	}

	if r.compact {
		return json.Marshal(out)
	}
	return json.MarshalIndent(out, "", "  ")
}
