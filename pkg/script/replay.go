package script

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// Options control a replay.
type Options struct {
	Deck   deck.Config
	Width  int
	Height int

	// FrameRate is the sampling rate of the returned frames.
	FrameRate int

	// Tail is how long replay continues after the last step while
	// animations are still running.
	Tail time.Duration

	Logger *log.Logger
}

// DefaultTail bounds the animation tail after the last step.
const DefaultTail = 5 * time.Second

// Replay runs s against a fresh deck and samples it once per frame. Steps
// due at or before a frame time are applied in order, each at its own
// timestamp, before the deck is ticked to the frame time.
//
// Replay stops after the last step once no animation is running, or when the
// tail has elapsed. The result depends only on the script and the options.
func Replay(ctx context.Context, s *Script, opts Options) ([]deck.Snapshot, error) {
	if opts.FrameRate <= 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "frame rate must be positive")
	}
	if opts.Tail <= 0 {
		opts.Tail = DefaultTail
	}
	var dopts []deck.Option
	if opts.Logger != nil {
		dopts = append(dopts, deck.WithLogger(opts.Logger))
	}

	d := deck.New(opts.Deck, dopts...)
	d.OnResize(opts.Width, opts.Height)
	d.OnItemsChanged(toHandles(s.Handles()))

	step := time.Second / time.Duration(opts.FrameRate)
	end := s.Duration() + opts.Tail
	next := 0

	var frames []deck.Snapshot
	for now := time.Duration(0); ; now += step {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for next < len(s.Steps) && s.Steps[next].At <= now {
			apply(d, s.Steps[next])
			next++
		}
		d.Tick(now)
		frames = append(frames, d.Snapshot())

		if next == len(s.Steps) && (!d.Animating() || now >= end) {
			break
		}
	}
	return frames, nil
}

func apply(d *deck.Deck, st Step) {
	switch st.Action {
	case Press:
		d.TouchDown(st.Pos, st.At)
	case Move:
		d.TouchMove(st.Pos, st.At)
	case Release:
		d.TouchUp(st.Pos, st.At)
	case Fling:
		d.Tick(st.At)
		d.Fling(st.Velocity)
	case Add:
		d.Tick(st.At)
		d.AddItem(deck.Handle(st.Handle))
	case Remove:
		d.Tick(st.At)
		d.RemoveItem(deck.Handle(st.Handle))
	case Clear:
		d.Tick(st.At)
		d.ClearAll()
	case Resize:
		d.Tick(st.At)
		d.OnResize(st.Width, st.Height)
	case Settle:
		d.Tick(st.At)
		d.SettleOverscroll()
	}
}

func toHandles(hs []string) []deck.Handle {
	out := make([]deck.Handle, len(hs))
	for i, h := range hs {
		out[i] = deck.Handle(h)
	}
	return out
}
