package deck

import "time"

// clearAll dismisses a snapshot of handles one at a time.
type clearAll struct {
	pending []Handle
	next    time.Duration
}

// ClearAll dismisses every item except the most recent one, the first
// immediately and the rest every ClearAllStagger. A deck holding a single
// item is cleared completely. It returns false when a clear is already
// running or the deck is empty.
func (d *Deck) ClearAll() bool {
	if d.clearing != nil || len(d.items) == 0 {
		return false
	}
	count := len(d.items)
	if count > 1 {
		count--
	}
	c := &clearAll{pending: make([]Handle, count), next: d.now}
	for i := range c.pending {
		c.pending[i] = d.items[i].handle
	}
	d.clearing = c
	d.logger.Debug("clear all", "count", count)
	d.tickClearAll(d.now)
	return true
}

// Clearing reports whether a clear-all is in progress.
func (d *Deck) Clearing() bool { return d.clearing != nil }

func (d *Deck) tickClearAll(now time.Duration) {
	c := d.clearing
	for c != nil && len(c.pending) > 0 && now >= c.next {
		d.RemoveItem(c.pending[0])
		c.pending = c.pending[1:]
		c.next += d.cfg.ClearAllStagger
	}
	if c != nil && len(c.pending) == 0 {
		d.clearing = nil
	}
}
