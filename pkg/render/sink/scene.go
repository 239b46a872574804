package sink

import (
	"hash/fnv"

	"github.com/matzehuels/cardstack/pkg/deck"
)

// Scene is what the sinks draw.
type Scene struct {
	Width       int              `json:"width"`
	Height      int              `json:"height"`
	Orientation deck.Orientation `json:"orientation"`
	CardPadding int              `json:"card_padding"`
	Frames      []deck.Snapshot  `json:"frames"`
}

// viewLength is the extent of the scroll axis.
func (s Scene) viewLength() int {
	if s.Orientation == deck.Landscape {
		return s.Width
	}
	return s.Height
}

// cardRect returns the card content box for a view position.
func (s Scene) cardRect(view int) (x, y, w, h float64) {
	cw, ch := deck.CardSize(s.Orientation, s.Width, s.Height, s.CardPadding)
	p := float64(s.CardPadding)
	w, h = float64(cw)-2*p, float64(ch)-2*p
	if s.Orientation == deck.Landscape {
		return float64(view) + p, p, w, h
	}
	return p, float64(view) + p, w, h
}

// sample returns every n-th frame, always keeping the last one.
func sample(frames []deck.Snapshot, every int) []deck.Snapshot {
	if every <= 1 || len(frames) == 0 {
		return frames
	}
	out := make([]deck.Snapshot, 0, len(frames)/every+1)
	for i := 0; i < len(frames); i += every {
		out = append(out, frames[i])
	}
	if (len(frames)-1)%every != 0 {
		out = append(out, frames[len(frames)-1])
	}
	return out
}

// colorIndex picks a stable palette slot for a handle.
func colorIndex(h deck.Handle, n int) int {
	f := fnv.New32a()
	f.Write([]byte(h))
	return int(f.Sum32() % uint32(n))
}
