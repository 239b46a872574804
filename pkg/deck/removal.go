package deck

import (
	"time"

	"github.com/matzehuels/cardstack/pkg/motion"
	"github.com/matzehuels/cardstack/pkg/observability"
)

type itemTween struct {
	it       *item
	from, to int
}

// removalAnimation moves the surviving items to their new spacing.
type removalAnimation struct {
	tweens []itemTween
	clock  motion.Tween
}

// RemoveItem removes the item bound to h and re-flows the rest. Items whose
// view position does not change snap; the others animate over
// RemoveDuration. It reports whether h was found.
func (d *Deck) RemoveItem(h Handle) bool {
	i := d.Find(h)
	if i < 0 {
		return false
	}
	d.cancelRemoval()
	// The scroller's bounds belong to the longer deck.
	d.cancelFling()
	beyondEnd := d.overscrollPosition - d.scrollLength
	beforeStart := d.overscrollPosition < 0

	d.items = append(d.items[:i], d.items[i+1:]...)
	d.updateLengths()
	d.logger.Debug("item removed", "handle", h, "remaining", len(d.items))

	// Keep the offset inside the shorter deck. Only an overscroll that was
	// already under way keeps its tilt.
	switch {
	case beforeStart:
		d.doScrolling(d.overscrollPosition)
	case beyondEnd > 0:
		d.doScrolling(d.scrollLength + beyondEnd)
	default:
		d.clampScroll()
	}

	if len(d.items) > 0 {
		d.animateRemoval()
	} else {
		d.finishRemoval()
	}
	d.resetOverscrolling()
	observability.Deck().OnItemRemoved(string(h), len(d.items))
	return true
}

// clampScroll pins both offsets into [0, scrollLength] without tilting.
func (d *Deck) clampScroll() {
	pos := d.overscrollPosition
	if pos > d.scrollLength {
		pos = d.scrollLength
	}
	if pos < 0 {
		pos = 0
	}
	d.scrollPosition = pos
	d.overscrollPosition = pos
}

func (d *Deck) animateRemoval() {
	anim := &removalAnimation{
		clock: motion.Tween{
			From:     0,
			To:       1,
			Start:    d.now,
			Duration: d.cfg.RemoveDuration,
			Ease:     motion.Decelerate,
		},
	}

	d.calc.reset()
	t := d.transform()
	for _, it := range d.items {
		oldPos := it.position
		newPos := d.calc.next(t, d.distance)
		if d.scrollToView(oldPos) == d.scrollToView(newPos) {
			it.position = newPos
			continue
		}
		anim.tweens = append(anim.tweens, itemTween{it: it, from: oldPos, to: newPos})
	}

	if len(anim.tweens) == 0 || d.cfg.RemoveDuration <= 0 {
		for _, tw := range anim.tweens {
			tw.it.position = tw.to
		}
		d.finishRemoval()
		return
	}
	d.removal = anim
	d.layout()
}

func (d *Deck) tickRemoval(now time.Duration) {
	anim := d.removal
	if anim == nil {
		return
	}
	f := anim.clock.At(now)
	for _, tw := range anim.tweens {
		tw.it.position = tw.from + int(float64(tw.to-tw.from)*f)
	}
	if anim.clock.Done(now) {
		d.removal = nil
		d.finishRemoval()
		return
	}
	d.layout()
}

// cancelRemoval stops a running reflow; items stay where they are.
func (d *Deck) cancelRemoval() {
	if d.removal == nil {
		return
	}
	d.removal = nil
	d.finishRemoval()
}

// finishRemoval adopts the bottom cap of the new spacing once the reflow has
// settled.
func (d *Deck) finishRemoval() {
	d.bottomCap = d.viewLength - d.distance
	d.layout()
}

// Removing reports whether a removal reflow is running.
func (d *Deck) Removing() bool { return d.removal != nil }
