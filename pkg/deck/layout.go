package deck

import "github.com/matzehuels/cardstack/pkg/observability"

// doScrolling moves the overscroll offset to pos and pins the scroll offset
// into [0, scrollLength], converting the excess into overscroll progress.
func (d *Deck) doScrolling(pos int) {
	d.overscrollPosition = pos
	switch {
	case pos < 0:
		d.scrollPosition = 0
		d.tiltEffect.SetProgress(d.overscrollFraction(pos))
	case pos > d.scrollLength:
		d.scrollPosition = d.scrollLength
		d.tiltEffect.SetProgress(d.overscrollFraction(pos - d.scrollLength))
	default:
		d.scrollPosition = pos
		d.tiltEffect.Reset()
	}
	d.tiltEffect.Update()
}

func (d *Deck) overscrollFraction(excess int) float64 {
	if d.maxOverscroll == 0 {
		return 0
	}
	return float64(excess) / float64(d.maxOverscroll)
}

// computeOverscroll is the tilt effect's callback.
func (d *Deck) computeOverscroll(progress float64) {
	d.tilt = progress * d.cfg.MaxTilt
	d.overscrollPosition = d.scrollPosition + int(progress*float64(d.maxOverscroll))
	d.layout()
}

// resetOverscrolling pins the overscroll offset back to the nearest end and
// animates the tilt away.
func (d *Deck) resetOverscrolling() {
	if d.overscrollPosition >= 0 && d.overscrollPosition <= d.scrollLength {
		return
	}
	if d.overscrollPosition < 0 {
		d.overscrollPosition = 0
	} else {
		d.overscrollPosition = d.scrollLength
	}
	progress := d.tiltEffect.Progress()
	dur := d.tiltEffect.AnimateReset(d.now)
	observability.Deck().OnOverscrollReset(progress, dur)
}

// SettleOverscroll animates any overscroll back into bounds. Hosts call it
// when a gesture is cancelled or an item has been dismissed.
func (d *Deck) SettleOverscroll() {
	if d.flinging {
		return
	}
	d.resetOverscrolling()
	d.layout()
}

// isOccluded reports whether next hides prev completely.
func (d *Deck) isOccluded(prev, next *item) bool {
	if next.position+d.landingArea >= d.scrollPosition {
		// next is not on top; prev is hidden only below the bottom cap
		return prev.position >= d.scrollPosition+d.bottomCap
	}
	return true
}

// layout places every visible item. Hidden items keep their last view
// position. The most recent item is always placed.
func (d *Deck) layout() {
	visible := 0
	for i, it := range d.items {
		if i < len(d.items)-1 && d.isOccluded(it, d.items[i+1]) {
			it.visible = false
			continue
		}
		it.visible = true
		it.tilt = d.tilt
		it.view = d.scrollToView(it.position)
		visible++
	}
	observability.Deck().OnLayout(visible, len(d.items))
}

// IndexAt returns the index of the item at view coordinate pos, or -1.
//
// The scan keeps the last item whose position does not exceed the target and
// stops at the first one beyond it. Unless ignoreOcclusion is set, points
// below the bottom cap resolve to the most recent item.
func (d *Deck) IndexAt(pos float64, ignoreOcclusion bool) int {
	if len(d.items) == 0 {
		return -1
	}
	pos -= d.cfg.StartPadding
	if pos <= 0 {
		return -1
	}

	target := d.transform().ToScroll(pos, true)
	if target > float64(d.bottomCap) && !ignoreOcclusion {
		return len(d.items) - 1
	}
	target += float64(d.scrollPosition)

	id := -1
	for i, it := range d.items {
		if float64(it.position) > target {
			break
		}
		id = i
	}
	return id
}

// ItemAt returns the handle of the card a click at pos lands on.
func (d *Deck) ItemAt(pos float64) (Handle, bool) {
	i := d.IndexAt(pos, false)
	if i < 0 {
		return "", false
	}
	return d.items[i].handle, true
}

// CardSize returns the outer card size for a viewport, padding included.
// Portrait cards span the viewport width, landscape cards its height; the
// other side is the same plus padding on both ends.
func CardSize(o Orientation, width, height, padding int) (w, h int) {
	if o == Portrait {
		return width, width + 2*padding
	}
	return height + 2*padding, height
}
