package deck

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cardstack/pkg/motion"
	"github.com/matzehuels/cardstack/pkg/observability"
)

// Handle is an opaque reference to externally owned card content.
type Handle string

// State is the gesture state of the deck.
type State int

const (
	// Idle: no claimed gesture and no animation of the scroll offset.
	Idle State = iota
	// Scrolling: a drag has crossed the touch slop and owns the gesture.
	Scrolling
	// Settling: the overscroll is animating back into bounds.
	Settling
	// Flinging: a fling trajectory is driving the scroll offset.
	Flinging
)

func (s State) String() string {
	switch s {
	case Scrolling:
		return "scrolling"
	case Settling:
		return "settling"
	case Flinging:
		return "flinging"
	}
	return "idle"
}

type item struct {
	handle   Handle
	position int // scroll space
	tilt     float64
	view     int // last laid-out view position
	visible  bool
}

// Placement is where one item is drawn.
type Placement struct {
	Handle   Handle  `json:"handle"`
	Position int     `json:"position"`
	View     int     `json:"view"`
	Tilt     float64 `json:"tilt"`
	Visible  bool    `json:"visible"`
}

// Metrics is a snapshot of the deck's global lengths and offsets.
type Metrics struct {
	Items              int     `json:"items"`
	ViewLength         int     `json:"view_length"`
	Distance           int     `json:"distance"`
	LandingArea        int     `json:"landing_area"`
	ScrollLength       int     `json:"scroll_length"`
	BottomCap          int     `json:"bottom_cap"`
	MaxOverscroll      int     `json:"max_overscroll"`
	ScrollPosition     int     `json:"scroll_position"`
	OverscrollPosition int     `json:"overscroll_position"`
	Progress           float64 `json:"progress"`
	Tilt               float64 `json:"tilt"`
}

// Option configures a Deck.
type Option func(*Deck)

// WithLogger sets the logger used for structural events (debug level).
func WithLogger(l *log.Logger) Option {
	return func(d *Deck) {
		if l != nil {
			d.logger = l
		}
	}
}

// Deck is the card deck engine. See the package documentation.
type Deck struct {
	cfg    Config
	logger *log.Logger

	width, height int
	viewLength    int
	distance      int
	landingArea   int
	scrollLength  int
	bottomCap     int
	maxOverscroll int

	scrollPosition     int
	overscrollPosition int
	tilt               float64

	items []*item
	calc  positionCalculator

	tiltEffect *OverscrollEffect
	scroller   *motion.Scroller
	flinging   bool
	removal    *removalAnimation
	clearing   *clearAll
	touch      touchState

	now time.Duration
}

// New creates an empty deck with a zero-sized viewport.
func New(cfg Config, opts ...Option) *Deck {
	d := &Deck{
		cfg:      cfg,
		logger:   log.Default(),
		scroller: motion.NewScroller(cfg.Fling),
	}
	d.tiltEffect = NewOverscrollEffect(cfg.OverscrollResetDuration, d.computeOverscroll)
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Config returns the configuration the deck was created with.
func (d *Deck) Config() Config { return d.cfg }

// Now returns the latest timestamp the deck has seen.
func (d *Deck) Now() time.Duration { return d.now }

// Size returns the viewport dimensions.
func (d *Deck) Size() (width, height int) { return d.width, d.height }

// Len returns the number of items.
func (d *Deck) Len() int { return len(d.items) }

// OnResize sets the viewport size and re-lays out the deck, scrolled to the
// most recent item.
func (d *Deck) OnResize(width, height int) {
	d.width, d.height = width, height
	d.update()
}

// OnItemsChanged synchronises the deck with the content adapter. Existing
// items are reused by index, new ones appended and surplus ones dropped; the
// deck is then re-laid out and scrolled to the most recent item.
func (d *Deck) OnItemsChanged(handles []Handle) {
	for i, h := range handles {
		if i < len(d.items) {
			d.items[i].handle = h
		} else {
			d.items = append(d.items, &item{handle: h})
		}
	}
	d.items = d.items[:len(handles)]
	d.logger.Debug("items changed", "count", len(handles))
	d.update()
}

// AddItem appends a new most-recent item and re-lays out the deck.
func (d *Deck) AddItem(h Handle) {
	d.items = append(d.items, &item{handle: h})
	d.logger.Debug("item added", "handle", h, "count", len(d.items))
	d.update()
}

// Find returns the index of h, or -1.
func (d *Deck) Find(h Handle) int {
	for i, it := range d.items {
		if it.handle == h {
			return i
		}
	}
	return -1
}

// Handles returns the item handles, oldest first.
func (d *Deck) Handles() []Handle {
	out := make([]Handle, len(d.items))
	for i, it := range d.items {
		out[i] = it.handle
	}
	return out
}

// update recomputes everything from the item list and the viewport.
func (d *Deck) update() {
	d.stopAnimations()

	if d.cfg.Orientation == Portrait {
		d.viewLength = d.height
	} else {
		d.viewLength = d.width
	}
	d.updateLengths()
	d.bottomCap = d.viewLength - d.distance

	d.calc.reset()
	t := d.transform()
	for _, it := range d.items {
		it.position = d.calc.next(t, d.distance)
	}

	d.scrollPosition = d.mostRecentScrollPosition()
	d.overscrollPosition = d.scrollPosition
	d.tiltEffect.Reset()
	d.tilt = 0

	d.layout()
}

func (d *Deck) updateLengths() {
	n := len(d.items)
	switch {
	case n == 0:
		d.distance = 0
	case float64(n) < 1/d.cfg.MinDistance:
		d.distance = d.viewLength / n
	default:
		d.distance = int(float64(d.viewLength) * d.cfg.MinDistance)
	}
	if d.distance > d.viewLength {
		d.distance = d.viewLength
	}

	if n < 2 {
		d.landingArea = 0
		d.scrollLength = 0
	} else {
		if d.cfg.LandingEqualDistance {
			d.landingArea = d.distance
		} else {
			d.landingArea = int(float64(d.viewLength) * d.cfg.MaxLandingArea)
		}
		if d.landingArea > d.viewLength {
			d.landingArea = d.viewLength
		}
		d.scrollLength = d.distance*(n-1) + d.landingArea
	}

	d.maxOverscroll = int(float64(d.viewLength) * d.cfg.MaxOverscroll)
}

// mostRecentScrollPosition is the offset that shows the last item focused.
func (d *Deck) mostRecentScrollPosition() int {
	if len(d.items) < 2 {
		return 0
	}
	pos := d.scrollLength - d.landingArea - d.bottomCap
	if pos < 0 {
		pos = 0
	}
	return pos
}

func (d *Deck) transform() Transform {
	return Transform{
		LandingArea: d.landingArea,
		ViewLength:  d.viewLength,
		BottomCap:   d.bottomCap,
	}
}

// scrollToView maps an absolute scroll position to its view position.
func (d *Deck) scrollToView(pos int) int {
	return int(d.transform().ToView(float64(pos - d.scrollPosition)))
}

func (d *Deck) stopAnimations() {
	d.cancelFling()
	d.cancelRemoval()
	d.tiltEffect.reset = nil
}

// advance moves the deck clock forward; it never goes backwards.
func (d *Deck) advance(now time.Duration) {
	if now > d.now {
		d.now = now
	}
}

// Tick advances every running animation to now.
func (d *Deck) Tick(now time.Duration) {
	d.advance(now)

	if d.flinging {
		if pos, ok := d.scroller.Compute(d.now); ok {
			d.doScrolling(roundInt(pos))
		}
		if d.scroller.Finished() {
			d.flinging = false
			d.logger.Debug("fling finished", "position", d.scrollPosition)
			observability.Deck().OnFlingEnd(d.scrollPosition)
			d.resetOverscrolling()
			d.layout()
		}
	}
	d.tiltEffect.Tick(d.now)
	d.tickRemoval(d.now)
	d.tickClearAll(d.now)
}

// Animating reports whether Tick still has work to do.
func (d *Deck) Animating() bool {
	return d.flinging || d.tiltEffect.Animating() || d.removal != nil || d.clearing != nil
}

// State returns the current gesture state.
func (d *Deck) State() State {
	switch {
	case d.touch.down && d.touch.claimed:
		return Scrolling
	case d.flinging:
		return Flinging
	case d.tiltEffect.Animating():
		return Settling
	}
	return Idle
}

// Claimed reports whether the current press has turned into a scroll
// gesture. Hosts use it to suppress clicks and swipes.
func (d *Deck) Claimed() bool {
	return d.touch.down && d.touch.claimed
}

// RenderPlan returns the placement of every item in draw order.
func (d *Deck) RenderPlan() []Placement {
	out := make([]Placement, len(d.items))
	for i, it := range d.items {
		out[i] = Placement{
			Handle:   it.handle,
			Position: it.position,
			View:     it.view,
			Tilt:     it.tilt,
			Visible:  it.visible,
		}
	}
	return out
}

// Snapshot is everything a renderer needs for one frame.
type Snapshot struct {
	Time    time.Duration `json:"time"`
	State   string        `json:"state"`
	Metrics Metrics       `json:"metrics"`
	Plan    []Placement   `json:"plan"`
}

// Snapshot captures the deck at its current time.
func (d *Deck) Snapshot() Snapshot {
	return Snapshot{
		Time:    d.now,
		State:   d.State().String(),
		Metrics: d.Metrics(),
		Plan:    d.RenderPlan(),
	}
}

// Metrics returns a snapshot of the global lengths.
func (d *Deck) Metrics() Metrics {
	return Metrics{
		Items:              len(d.items),
		ViewLength:         d.viewLength,
		Distance:           d.distance,
		LandingArea:        d.landingArea,
		ScrollLength:       d.scrollLength,
		BottomCap:          d.bottomCap,
		MaxOverscroll:      d.maxOverscroll,
		ScrollPosition:     d.scrollPosition,
		OverscrollPosition: d.overscrollPosition,
		Progress:           d.tiltEffect.Progress(),
		Tilt:               d.tilt,
	}
}

func roundInt(f float64) int {
	if f < 0 {
		return -int(-f + 0.5)
	}
	return int(f + 0.5)
}
