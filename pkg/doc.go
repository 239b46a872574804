// Package pkg provides the core libraries for cardstack.
//
// # Overview
//
// Cardstack lays out a stack of cards along a single scroll axis. Older cards
// are compressed near the top of the viewport and the most recent ones land
// in an interpolated zone at the bottom; dragging past either end tilts the
// stack elastically, flings coast and spring back, and dismissed cards are
// animated out while the rest reflow.
//
// # Architecture
//
// The typical data flow:
//
//	gesture script / touch events
//	         ↓
//	    [script] package (parse, replay at a fixed frame rate)
//	         ↓
//	    [deck] package (layout, overscroll, fling, removal)
//	         ↓
//	    [render/sink] package (JSON, SVG, text)
//	         ↓
//	    [render] package (SVG to PNG/PDF)
//
// # Quick Start
//
//	import "github.com/matzehuels/cardstack/pkg/deck"
//
//	d := deck.New(deck.DefaultConfig())
//	d.OnResize(600, 1000)
//	d.OnItemsChanged([]deck.Handle{"mail", "maps", "music"})
//
//	d.TouchDown(900, 0)
//	d.TouchMove(700, 16*time.Millisecond)
//	d.TouchUp(650, 32*time.Millisecond)
//	for now := 32 * time.Millisecond; d.Animating(); now += 16 * time.Millisecond {
//	    d.Tick(now)
//	    draw(d.RenderPlan())
//	}
//
// # Main Packages
//
// [deck] - The engine. Owns the scroll and view transforms, the overscroll
// tilt effect, fling, animated removal and clear-all. Single threaded; hosts
// feed it monotonic timestamps and call Tick every frame.
//
// [motion] - Tweens, the least-squares velocity tracker and the fling
// scroller with its elastic edge spring.
//
// [script] - TOML gesture scripts and a deterministic replay that samples a
// deck into snapshots.
//
// [render/sink] - Frame sinks: JSON export, SVG contact sheets with card
// styles, and lipgloss text frames (also used by the TUI).
//
// [render] - SVG to PNG/PDF conversion through rsvg-convert.
//
// [session] - Live decks for the HTTP server, with idle expiry.
//
// [cache] - Content-addressed cache for replayed frames and rendered
// artifacts.
//
// [config] - TOML configuration for the viewport, engine tuning, rendering
// and the server.
//
// [errors] - Coded errors shared by every fallible edge.
//
// [observability] - Hook registry for engine, render, cache and HTTP events.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/deck/...     # Specific package
//	go test -run Example ./... # Examples only
package pkg
