package deck

import (
	"math"
	"time"

	"github.com/matzehuels/cardstack/pkg/motion"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// touchState is the pointer bookkeeping between a press and its release.
type touchState struct {
	down    bool
	claimed bool
	initPos float64

	anchorDelta int     // pointer minus the anchor item's view position
	lastScroll  float64 // last anchored pointer sample, relative scroll space
	lastView    int     // last anchored pointer sample, view space

	tracker motion.VelocityTracker
}

// TouchDown starts a press at view coordinate pos.
//
// Any fling and any overscroll reset stop where they are. The item under the
// pointer becomes the drag anchor so that it follows the finger exactly.
func (d *Deck) TouchDown(pos float64, t time.Duration) {
	d.advance(t)
	d.cancelFling()
	d.tiltEffect.StopAnimation()

	ts := &d.touch
	ts.down = true
	ts.claimed = false
	ts.initPos = pos

	if i := d.IndexAt(pos, true); i >= 0 {
		anchor := d.items[i].position
		ts.anchorDelta = int(pos) - d.scrollToView(anchor)
		ts.lastScroll = float64(anchor - d.scrollPosition)
	} else {
		ts.anchorDelta = 0
		ts.lastScroll = d.transform().ToScroll(pos, false)
	}
	ts.lastView = int(pos) - ts.anchorDelta

	ts.tracker.Clear()
	ts.tracker.Add(pos, t)
}

// TouchMove drags the deck to view coordinate pos. It returns whether the
// press has been claimed as a scroll gesture.
func (d *Deck) TouchMove(pos float64, t time.Duration) bool {
	ts := &d.touch
	if !ts.down {
		return false
	}
	d.advance(t)
	ts.tracker.Add(pos, t)

	if !ts.claimed && math.Abs(pos-ts.initPos) > d.cfg.TouchSlop {
		ts.claimed = true
		d.logger.Debug("gesture claimed", "pos", pos)
		observability.Deck().OnGestureClaimed(pos)
	}

	cur := pos - float64(ts.anchorDelta)
	scroll := d.transform().ToScroll(cur, false)

	var delta int
	if cur > 0 {
		delta = int(ts.lastScroll - scroll)
	} else {
		// Anchor is at the top, the mapping is linear there.
		delta = ts.lastView - int(cur)
	}
	ts.lastScroll = scroll
	ts.lastView = int(cur)

	d.doScrolling(d.overscrollPosition + delta)
	return ts.claimed
}

// TouchUp ends the press at view coordinate pos. A fast enough claimed
// release flings the deck; otherwise any overscroll settles back. It returns
// whether the press had been claimed.
func (d *Deck) TouchUp(pos float64, t time.Duration) bool {
	ts := &d.touch
	if !ts.down {
		return false
	}
	d.advance(t)
	ts.tracker.Add(pos, t)
	velocity := ts.tracker.Velocity()
	claimed := ts.claimed
	ts.down = false
	ts.claimed = false

	if claimed && math.Abs(velocity) >= d.cfg.MinFlingVelocity {
		d.Fling(velocity)
	}
	if !d.flinging {
		d.resetOverscrolling()
	}
	d.layout()
	return claimed
}

// Fling starts an inertial scroll with the pointer velocity v (view pixels
// per second, positive towards larger view coordinates). The fling is only
// armed while the deck is not already at or beyond an end; it reports
// whether it was.
func (d *Deck) Fling(v float64) bool {
	armed := d.overscrollPosition >= 0 && d.overscrollPosition < d.scrollLength
	observability.Deck().OnFling(v, armed)
	if !armed {
		return false
	}

	d.cancelFling()
	d.scroller.Fling(float64(d.scrollPosition), -v,
		0, float64(d.scrollLength), float64(d.maxOverscroll), d.now)
	d.flinging = true
	d.logger.Debug("fling", "velocity", v, "from", d.scrollPosition)
	return true
}

func (d *Deck) cancelFling() {
	if !d.flinging {
		return
	}
	d.scroller.ForceFinished()
	d.flinging = false
}
