package deck

import (
	"math"
	"time"

	"github.com/matzehuels/cardstack/pkg/motion"
)

// OverscrollEffect tracks how far the deck is dragged past one of its ends,
// as a fraction of the elastic travel, and animates it back to rest.
//
// The visible effect is delegated to the compute callback, which receives the
// current progress in [-1, 1] every time [OverscrollEffect.Update] runs.
type OverscrollEffect struct {
	progress    float64
	maxDuration time.Duration
	reset       *motion.Tween
	compute     func(progress float64)
}

// NewOverscrollEffect creates an effect whose full-range reset takes maxDuration.
func NewOverscrollEffect(maxDuration time.Duration, compute func(progress float64)) *OverscrollEffect {
	return &OverscrollEffect{maxDuration: maxDuration, compute: compute}
}

// Progress returns the current progress.
func (e *OverscrollEffect) Progress() float64 { return e.progress }

// SetProgress stores progress clamped to [-1, 1].
func (e *OverscrollEffect) SetProgress(progress float64) {
	switch {
	case math.IsNaN(progress):
		progress = 0
	case progress < -1:
		progress = -1
	case progress > 1:
		progress = 1
	}
	e.progress = progress
}

// Update applies the current progress.
func (e *OverscrollEffect) Update() {
	if e.compute != nil {
		e.compute(e.progress)
	}
}

// Reset sets the progress to zero without applying it.
func (e *OverscrollEffect) Reset() {
	e.progress = 0
}

// Animating reports whether a reset animation is running.
func (e *OverscrollEffect) Animating() bool {
	return e.reset != nil
}

// AnimateReset starts animating the progress back to zero, replacing any
// running reset. The duration is proportional to the current progress.
// Returns the chosen duration.
func (e *OverscrollEffect) AnimateReset(now time.Duration) time.Duration {
	e.StopAnimation()

	d := time.Duration(math.Abs(e.progress) * float64(e.maxDuration))
	if d <= 0 {
		e.progress = 0
		e.Update()
		return 0
	}
	e.reset = &motion.Tween{
		From:     e.progress,
		To:       0,
		Start:    now,
		Duration: d,
		Ease:     motion.Decelerate,
	}
	return d
}

// StopAnimation cancels a running reset, leaving the progress where it is.
// A cancelled animation applies its progress one last time.
func (e *OverscrollEffect) StopAnimation() {
	if e.reset == nil {
		return
	}
	e.reset = nil
	e.Update()
}

// Tick advances a running reset to now.
func (e *OverscrollEffect) Tick(now time.Duration) {
	if e.reset == nil {
		return
	}
	e.SetProgress(e.reset.At(now))
	e.Update()
	if e.reset.Done(now) {
		e.reset = nil
		e.Update()
	}
}
