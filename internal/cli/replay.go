package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cardstack/pkg/cache"
	"github.com/matzehuels/cardstack/pkg/config"
	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/render/sink"
	"github.com/matzehuels/cardstack/pkg/script"
)

// replayOpts are the flags shared by simulate and render.
type replayOpts struct {
	width     int
	height    int
	frameRate int
	landscape bool
	noCache   bool
}

func (o *replayOpts) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.width, "width", 0, "viewport width (default from config)")
	cmd.Flags().IntVar(&o.height, "height", 0, "viewport height (default from config)")
	cmd.Flags().IntVar(&o.frameRate, "fps", 0, "frame sampling rate (default from config)")
	cmd.Flags().BoolVar(&o.landscape, "landscape", false, "scroll horizontally")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable the frame and artifact cache")
}

// apply overrides cfg with the flags that were set.
func (o *replayOpts) apply(cfg *config.Config) error {
	if o.width > 0 {
		cfg.Viewport.Width = o.width
	}
	if o.height > 0 {
		cfg.Viewport.Height = o.height
	}
	if o.frameRate > 0 {
		cfg.Render.FrameRate = o.frameRate
	}
	if o.landscape {
		cfg.Deck.Orientation = deck.Landscape
	}
	return cfg.Validate()
}

// replayResult is a replayed script ready for the sinks.
type replayResult struct {
	script     *script.Script
	scene      sink.Scene
	framesHash string
	cached     bool
}

// replay loads the script at path and replays it, reusing cached frames for
// an identical script, viewport and deck configuration.
func (c *CLI) replay(ctx context.Context, cfg config.Config, path string, store cache.Cache) (*replayResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "script %s not found", path)
		}
		return nil, err
	}
	s, err := script.Parse(data)
	if err != nil {
		return nil, err
	}

	deckJSON, err := json.Marshal(cfg.Deck)
	if err != nil {
		return nil, err
	}
	key := cache.NewDefaultKeyer().FramesKey(cache.Hash(data), cache.FramesKeyOpts{
		Width:      cfg.Viewport.Width,
		Height:     cfg.Viewport.Height,
		FrameRate:  cfg.Render.FrameRate,
		ConfigHash: cache.Hash(deckJSON),
	})

	res := &replayResult{script: s}
	var frames []deck.Snapshot
	raw, hit, err := store.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("Cache read failed", "error", err)
	}
	if hit && json.Unmarshal(raw, &frames) == nil {
		res.cached = true
	} else {
		prog := newProgress(c.Logger)
		frames, err = script.Replay(ctx, s, script.Options{
			Deck:      cfg.Deck,
			Width:     cfg.Viewport.Width,
			Height:    cfg.Viewport.Height,
			FrameRate: cfg.Render.FrameRate,
			Logger:    c.Logger,
		})
		if err != nil {
			return nil, err
		}
		prog.done(fmt.Sprintf("Replayed %d frames", len(frames)))

		if raw, err = json.Marshal(frames); err != nil {
			return nil, err
		}
		if err := store.Set(ctx, key, raw, cache.TTLFrames); err != nil {
			c.Logger.Warn("Cache write failed", "error", err)
		}
	}

	res.framesHash = cache.Hash(raw)
	res.scene = sink.Scene{
		Width:       cfg.Viewport.Width,
		Height:      cfg.Viewport.Height,
		Orientation: cfg.Deck.Orientation,
		CardPadding: cfg.Render.CardPadding,
		Frames:      frames,
	}
	return res, nil
}
