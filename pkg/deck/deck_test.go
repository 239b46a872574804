package deck

import (
	"fmt"
	"math"
	"testing"
	"time"
)

const frame = 16 * time.Millisecond

func newDeck(t *testing.T, n, height int) *Deck {
	t.Helper()
	d := New(DefaultConfig())
	d.OnResize(600, height)
	handles := make([]Handle, n)
	for i := range handles {
		handles[i] = Handle(fmt.Sprintf("task-%d", i))
	}
	d.OnItemsChanged(handles)
	return d
}

// settle ticks until every animation has finished.
func settle(t *testing.T, d *Deck, from time.Duration) time.Duration {
	t.Helper()
	now := from
	for i := 0; d.Animating(); i++ {
		if i > 2000 {
			t.Fatal("animations did not settle")
		}
		now += frame
		d.Tick(now)
	}
	return now
}

func TestLengths(t *testing.T) {
	tests := []struct {
		n                            int
		distance, landing, scrollLen int
	}{
		{0, 0, 0, 0},
		{1, 1000, 0, 0},
		{2, 500, 500, 1000},
		{3, 333, 500, 1166},
		{5, 200, 500, 1300},
		{12, 200, 500, 2700},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.n), func(t *testing.T) {
			m := newDeck(t, tt.n, 1000).Metrics()
			if m.Distance != tt.distance || m.LandingArea != tt.landing || m.ScrollLength != tt.scrollLen {
				t.Errorf("distance=%d landing=%d scrollLength=%d, want %d %d %d",
					m.Distance, m.LandingArea, m.ScrollLength, tt.distance, tt.landing, tt.scrollLen)
			}
			if m.Distance > m.ViewLength {
				t.Errorf("distance %d exceeds view length %d", m.Distance, m.ViewLength)
			}
			if tt.n >= 2 && m.ScrollLength != m.Distance*(tt.n-1)+m.LandingArea {
				t.Errorf("scrollLength %d != distance*(n-1)+landing", m.ScrollLength)
			}
			if m.MaxOverscroll != 200 {
				t.Errorf("maxOverscroll = %d, want 200", m.MaxOverscroll)
			}
		})
	}
}

func TestFiveItemScenario(t *testing.T) {
	d := newDeck(t, 5, 1000)
	m := d.Metrics()

	if m.Distance != 200 || m.LandingArea != 500 || m.ScrollLength != 1300 || m.BottomCap != 800 {
		t.Fatalf("metrics = %+v", m)
	}
	if want := m.ScrollLength - m.LandingArea - m.BottomCap; m.ScrollPosition != want {
		t.Errorf("scrollPosition = %d, want %d", m.ScrollPosition, want)
	}

	plan := d.RenderPlan()
	wantPos := []int{-500, 132, 394, 600, 800}
	wantView := []int{0, 199, 399, 600, 800}
	for i, p := range plan {
		if p.Position != wantPos[i] || p.View != wantView[i] || !p.Visible {
			t.Errorf("plan[%d] = %+v, want position %d view %d visible", i, p, wantPos[i], wantView[i])
		}
	}
}

func TestLandscapeUsesWidth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Orientation = Landscape
	d := New(cfg)
	d.OnResize(1000, 300)
	d.OnItemsChanged([]Handle{"a", "b", "c", "d", "e"})
	if m := d.Metrics(); m.ViewLength != 1000 || m.ScrollLength != 1300 {
		t.Errorf("metrics = %+v", m)
	}
}

func TestLastItemAlwaysVisible(t *testing.T) {
	d := newDeck(t, 20, 1000)
	for pos := -300; pos <= d.Metrics().ScrollLength+300; pos += 37 {
		d.doScrolling(pos)
		plan := d.RenderPlan()
		if !plan[len(plan)-1].Visible {
			t.Fatalf("last item hidden at scroll %d", pos)
		}
	}
}

func TestOcclusion(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(1300)
	plan := d.RenderPlan()
	if plan[0].Visible {
		t.Errorf("first item visible at the end of the deck")
	}
	if !plan[3].Visible || !plan[4].Visible {
		t.Errorf("front items hidden: %+v", plan)
	}
}

func TestOverscrollProgress(t *testing.T) {
	d := newDeck(t, 5, 1000)

	tests := []struct {
		pos      int
		scroll   int
		progress float64
	}{
		{-100, 0, -0.5},
		{-1000, 0, -1},
		{1350, 1300, 0.25},
		{5000, 1300, 1},
		{650, 650, 0},
	}
	for _, tt := range tests {
		d.doScrolling(tt.pos)
		m := d.Metrics()
		if m.ScrollPosition != tt.scroll || m.Progress != tt.progress {
			t.Errorf("doScrolling(%d): scroll=%d progress=%v, want %d %v",
				tt.pos, m.ScrollPosition, m.Progress, tt.scroll, tt.progress)
		}
		if want := tt.progress * d.cfg.MaxTilt; m.Tilt != want {
			t.Errorf("doScrolling(%d): tilt=%v, want %v", tt.pos, m.Tilt, want)
		}
	}
}

func TestOverscrollSettles(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(1400)
	d.SettleOverscroll()
	if d.State() != Settling {
		t.Fatalf("state = %v, want settling", d.State())
	}

	prev := math.Abs(d.Metrics().Progress)
	now := time.Duration(0)
	for d.Animating() {
		now += frame
		d.Tick(now)
		p := math.Abs(d.Metrics().Progress)
		if p > prev {
			t.Fatalf("progress grew: %v > %v", p, prev)
		}
		prev = p
	}
	m := d.Metrics()
	if m.Progress != 0 || m.Tilt != 0 || m.OverscrollPosition != 1300 || m.ScrollPosition != 1300 {
		t.Errorf("after settle: %+v", m)
	}
	if d.State() != Idle {
		t.Errorf("state = %v, want idle", d.State())
	}
}

func TestDragPastStart(t *testing.T) {
	d := newDeck(t, 5, 1000)

	d.TouchDown(900, 0)
	if d.Claimed() {
		t.Fatal("claimed on press")
	}
	if !d.TouchMove(1000, frame) {
		t.Fatal("move beyond slop not claimed")
	}
	if d.State() != Scrolling {
		t.Errorf("state = %v, want scrolling", d.State())
	}
	m := d.Metrics()
	if m.ScrollPosition != 0 || m.OverscrollPosition != -100 || m.Progress != -0.5 {
		t.Errorf("after drag: %+v", m)
	}

	if !d.TouchUp(1000, 2*frame) {
		t.Error("release not reported as claimed")
	}
	// Already past the start: the fling is refused and the tilt settles.
	if d.State() != Settling {
		t.Errorf("state = %v, want settling", d.State())
	}
	settle(t, d, 2*frame)
	if m := d.Metrics(); m.Progress != 0 || m.OverscrollPosition != 0 {
		t.Errorf("after settle: %+v", m)
	}
}

func TestDragFollowsAnchor(t *testing.T) {
	d := newDeck(t, 12, 1000)
	start := d.Metrics().ScrollPosition

	d.TouchDown(900, 0)
	d.TouchMove(880, frame)
	d.TouchMove(700, 2*frame)
	if got := d.Metrics().ScrollPosition; got != start+200 {
		t.Errorf("scrollPosition = %d, want %d", got, start+200)
	}
}

func TestTapIsNotClaimed(t *testing.T) {
	d := newDeck(t, 12, 1000)
	d.TouchDown(500, 0)
	if d.TouchMove(505, frame) {
		t.Error("move inside slop claimed")
	}
	if d.TouchUp(505, 2*frame) {
		t.Error("tap reported as claimed")
	}
	if d.Animating() {
		t.Error("tap started an animation")
	}
}

func TestFlingIgnoredAtEnd(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(1300)
	if d.Fling(-3000) {
		t.Error("fling armed at scrollLength")
	}
	d.doScrolling(-20)
	if d.Fling(3000) {
		t.Error("fling armed while overscrolled")
	}
	if d.State() == Flinging {
		t.Error("state is flinging")
	}
}

func TestFlingCoasts(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(600)
	if !d.Fling(-2000) {
		t.Fatal("fling not armed")
	}
	if d.State() != Flinging {
		t.Errorf("state = %v, want flinging", d.State())
	}

	prev := 600
	now := time.Duration(0)
	for i := 0; d.Animating(); i++ {
		if i > 1000 {
			t.Fatal("fling did not finish")
		}
		now += frame
		d.Tick(now)
		if p := d.Metrics().ScrollPosition; p < prev {
			t.Fatalf("fling moved backwards: %d < %d", p, prev)
		} else {
			prev = p
		}
	}
	if got := d.Metrics().ScrollPosition; got != 1157 {
		t.Errorf("final scrollPosition = %d, want 1157", got)
	}
}

func TestFlingSpringsBackAtEdge(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(600)
	d.Fling(-10000)

	maxProgress := 0.0
	now := time.Duration(0)
	for i := 0; d.Animating(); i++ {
		if i > 2000 {
			t.Fatal("fling did not finish")
		}
		now += frame
		d.Tick(now)
		m := d.Metrics()
		if m.ScrollPosition > m.ScrollLength {
			t.Fatalf("scrollPosition %d beyond %d", m.ScrollPosition, m.ScrollLength)
		}
		maxProgress = math.Max(maxProgress, m.Progress)
	}
	if maxProgress <= 0 {
		t.Error("fling never overscrolled")
	}
	if m := d.Metrics(); m.ScrollPosition != 1300 || m.Progress != 0 {
		t.Errorf("after fling: %+v", m)
	}
}

func TestTouchDownCancelsFling(t *testing.T) {
	d := newDeck(t, 5, 1000)
	d.doScrolling(600)
	d.Fling(-2000)
	d.Tick(frame)
	d.TouchDown(500, 2*frame)
	if d.State() == Flinging || d.Animating() {
		t.Errorf("fling still running after press")
	}
}

func TestIndexAt(t *testing.T) {
	d := newDeck(t, 5, 1000)
	tests := []struct {
		pos             float64
		ignoreOcclusion bool
		want            int
	}{
		{0, true, -1},
		{-5, false, -1},
		{100, true, 0},
		{250, true, 1},
		{450, false, 2},
		{700, true, 3},
		{850, false, 4},
		{850, true, 4},
	}
	for _, tt := range tests {
		if got := d.IndexAt(tt.pos, tt.ignoreOcclusion); got != tt.want {
			t.Errorf("IndexAt(%v, %v) = %d, want %d", tt.pos, tt.ignoreOcclusion, got, tt.want)
		}
	}

	if h, ok := d.ItemAt(250); !ok || h != "task-1" {
		t.Errorf("ItemAt(250) = %q, %v", h, ok)
	}
	if got := New(DefaultConfig()).IndexAt(100, false); got != -1 {
		t.Errorf("empty deck IndexAt = %d, want -1", got)
	}
}

func TestIndexAtStartPadding(t *testing.T) {
	cfg := DefaultConfig()
	cfg.StartPadding = 15
	d := New(cfg)
	d.OnResize(600, 1000)
	d.OnItemsChanged([]Handle{"a", "b", "c", "d", "e"})
	if got := d.IndexAt(10, true); got != -1 {
		t.Errorf("IndexAt inside padding = %d, want -1", got)
	}
	if got := d.IndexAt(265, true); got != 1 {
		t.Errorf("IndexAt(265) = %d, want 1", got)
	}
}

func TestRemoveMiddleOfThree(t *testing.T) {
	d := newDeck(t, 3, 1000)
	if got := []int{d.items[0].position, d.items[1].position, d.items[2].position}; got[0] != -500 || got[1] != 316 || got[2] != 666 {
		t.Fatalf("positions = %v", got)
	}

	if !d.RemoveItem("task-1") {
		t.Fatal("RemoveItem returned false")
	}
	m := d.Metrics()
	if m.Items != 2 || m.Distance != 500 || m.ScrollLength != 1000 {
		t.Fatalf("metrics after removal = %+v", m)
	}
	if !d.Removing() {
		t.Fatal("no reflow animation")
	}
	// The oldest card is pinned at the top and snaps.
	if got := d.items[0].position; got != -500 {
		t.Errorf("first position = %d, want -500", got)
	}

	d.Tick(500 * time.Millisecond)
	if got := d.items[1].position; got != 542 {
		t.Errorf("mid-animation position = %d, want 542", got)
	}

	d.Tick(time.Second)
	if d.Removing() {
		t.Error("reflow still running")
	}
	plan := d.RenderPlan()
	if plan[0].Handle != "task-0" || plan[1].Handle != "task-2" {
		t.Errorf("handles = %v", d.Handles())
	}
	if plan[1].Position != 500 || plan[1].View != 500 || !plan[1].Visible {
		t.Errorf("plan[1] = %+v", plan[1])
	}
	if got := d.Metrics().BottomCap; got != 500 {
		t.Errorf("bottomCap = %d, want 500", got)
	}
}

func TestRemoveUnknownAndLast(t *testing.T) {
	d := newDeck(t, 1, 1000)
	if d.RemoveItem("nope") {
		t.Error("unknown handle removed")
	}
	if !d.RemoveItem("task-0") {
		t.Fatal("RemoveItem returned false")
	}
	if d.Len() != 0 || len(d.RenderPlan()) != 0 || d.Animating() {
		t.Errorf("deck not empty: len=%d animating=%v", d.Len(), d.Animating())
	}
	if got := d.IndexAt(300, false); got != -1 {
		t.Errorf("IndexAt on empty deck = %d", got)
	}
}

func TestRemoveCancelsPrevious(t *testing.T) {
	d := newDeck(t, 6, 1000)
	d.RemoveItem("task-2")
	d.Tick(100 * time.Millisecond)
	d.RemoveItem("task-3")
	settle(t, d, 100*time.Millisecond)

	m := d.Metrics()
	if m.Items != 4 || m.Distance != 250 {
		t.Fatalf("metrics = %+v", m)
	}
	var c positionCalculator
	c.reset()
	for i, it := range d.items {
		if want := c.next(d.transform(), d.distance); it.position != want {
			t.Errorf("position[%d] = %d, want %d", i, it.position, want)
		}
	}
}

func assertResolved(t *testing.T, d *Deck) {
	t.Helper()
	m := d.Metrics()
	if m.Tilt != 0 || m.Progress != 0 {
		t.Errorf("tilt=%g progress=%g, want 0", m.Tilt, m.Progress)
	}
	if m.OverscrollPosition != m.ScrollPosition {
		t.Errorf("overscroll=%d scroll=%d, want equal", m.OverscrollPosition, m.ScrollPosition)
	}
	if m.ScrollPosition < 0 || m.ScrollPosition > m.ScrollLength {
		t.Errorf("scroll=%d outside [0, %d]", m.ScrollPosition, m.ScrollLength)
	}
	if s := d.State(); s != Idle {
		t.Errorf("state = %s, want idle", s)
	}
}

func TestRemoveDuringFling(t *testing.T) {
	tests := []struct {
		name   string
		remove func(d *Deck)
	}{
		{"remove", func(d *Deck) {
			d.RemoveItem("task-0")
			d.RemoveItem("task-1")
		}},
		{"clear all", func(d *Deck) { d.ClearAll() }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newDeck(t, 8, 1000)
			d.doScrolling(1000)
			if !d.Fling(-5000) {
				t.Fatal("fling refused")
			}
			d.Tick(frame)
			tt.remove(d)
			if d.State() == Flinging {
				t.Error("fling survived the removal")
			}
			settle(t, d, frame)
			assertResolved(t, d)
		})
	}
}

func TestRemoveAtEndDoesNotTilt(t *testing.T) {
	d := newDeck(t, 8, 1000)
	d.doScrolling(1900)
	if m := d.Metrics(); m.ScrollPosition != m.ScrollLength {
		t.Fatalf("scroll=%d, want the end %d", m.ScrollPosition, m.ScrollLength)
	}

	d.RemoveItem("task-0")
	m := d.Metrics()
	if m.ScrollLength != 1700 || m.ScrollPosition != 1700 {
		t.Errorf("scroll=%d len=%d, want 1700 1700", m.ScrollPosition, m.ScrollLength)
	}
	assertResolved(t, d)

	settle(t, d, 0)
	assertResolved(t, d)
}

func TestRemoveKeepsOverscrollExcess(t *testing.T) {
	d := newDeck(t, 8, 1000)
	d.doScrolling(2000)
	if got := d.Metrics().Progress; got != 0.5 {
		t.Fatalf("progress = %g, want 0.5", got)
	}

	d.RemoveItem("task-0")
	m := d.Metrics()
	if m.Progress != 0.5 || m.Tilt != 2.5 || m.ScrollPosition != m.ScrollLength {
		t.Errorf("progress=%g tilt=%g scroll=%d len=%d", m.Progress, m.Tilt, m.ScrollPosition, m.ScrollLength)
	}
	if d.State() != Settling {
		t.Errorf("state = %s, want settling", d.State())
	}

	settle(t, d, 0)
	assertResolved(t, d)
}

func TestClearAll(t *testing.T) {
	d := newDeck(t, 4, 1000)
	if !d.ClearAll() {
		t.Fatal("ClearAll refused")
	}
	if d.Len() != 3 {
		t.Errorf("len after first dismissal = %d, want 3", d.Len())
	}
	if d.ClearAll() {
		t.Error("second ClearAll accepted while running")
	}

	d.Tick(150 * time.Millisecond)
	if d.Len() != 2 {
		t.Errorf("len = %d, want 2", d.Len())
	}
	d.Tick(300 * time.Millisecond)
	settle(t, d, 300*time.Millisecond)

	if d.Clearing() {
		t.Error("still clearing")
	}
	if hs := d.Handles(); len(hs) != 1 || hs[0] != "task-3" {
		t.Errorf("handles = %v, want [task-3]", hs)
	}

	// A single card is dismissed as well.
	d.ClearAll()
	if d.Len() != 0 {
		t.Errorf("len = %d, want 0", d.Len())
	}
}

func TestItemsChangedResetsScroll(t *testing.T) {
	d := newDeck(t, 12, 1000)
	d.doScrolling(10)
	d.OnItemsChanged([]Handle{"x", "y", "z"})

	if got := d.Handles(); len(got) != 3 || got[0] != "x" {
		t.Errorf("handles = %v", got)
	}
	if got := d.Metrics().ScrollPosition; got != 0 {
		t.Errorf("scrollPosition = %d, want 0", got)
	}

	d.AddItem("w")
	if got := d.Find("w"); got != 3 {
		t.Errorf("Find(w) = %d, want 3", got)
	}
	if m := d.Metrics(); m.ScrollLength != 250*3+500 {
		t.Errorf("scrollLength = %d", m.ScrollLength)
	}
}

func TestCardSize(t *testing.T) {
	if w, h := CardSize(Portrait, 480, 800, 15); w != 480 || h != 510 {
		t.Errorf("portrait = %dx%d", w, h)
	}
	if w, h := CardSize(Landscape, 800, 480, 15); w != 510 || h != 480 {
		t.Errorf("landscape = %dx%d", w, h)
	}
}
