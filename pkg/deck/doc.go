// Package deck implements the motion and layout engine of a stacked card deck.
//
// Each item (one per open task) stores a linear position in scroll space,
// between -L and H, where L is the landing area and H the view length. The
// 2L-wide neighbourhood around the current scroll offset is compressed into an
// L-wide window of the view by the parabola x² on [0, 0.5], which produces the
// stacking effect; outside of it the mapping is a plain shift. Item positions
// are computed with the inverse mapping so that, with no cards stacked on top,
// every item has the same distance in the view.
//
// Input coordinates (view space) go through the inverse mapping as well before
// they adjust the global scroll position, so a card follows the finger that
// drags it regardless of how compressed it currently is.
//
//	                                          x ^
//	                                            |                       .'
//	                                            |                     .'  linear
//	            ---                ---   item3 -|-------------------.'
//	bottom cap > |                  D           |                 .' |
//	             |                  |           |               .'   |
//	             |                 ---   item2 -|-------------.'     |
//	        view length   --- - - - - - - - - - | - - - - - .' |     |
//	             |         |                    |        _-''  |     |
//	             |         L             item1 -|-----_.'   '  |     |
//	             |         |                    |_..-'|     '  |     |
//	             v         v        _____....--'|     |     '  |     |
//	         -----------------------------------+-------------------------->
//	                                |           |     |     '  |     |     y
//	                              item0         |   item1   'item2 item3
//	                                |<----L---->|<----L---->|  |<-D->|
//	                                            |<---view length---->|
//	                                |<--------scroll length--------->|
//	                 scroll position ^
//
// # Threading
//
// A [Deck] is not safe for concurrent use. All calls (input, structural
// changes and [Deck.Tick]) must come from one goroutine, or be serialised by
// the host. Animations never block: they store their start time and start
// value and are advanced by Tick with the host's monotonic clock, the same
// clock used to timestamp touch events.
//
// # Usage
//
//	d := deck.New(deck.DefaultConfig())
//	d.OnResize(1080, 1920)
//	d.OnItemsChanged([]deck.Handle{"mail", "maps", "music"})
//
//	d.TouchDown(900, 0)
//	d.TouchMove(1100, 16*time.Millisecond)
//	d.TouchUp(1180, 32*time.Millisecond)
//	for d.Animating() {
//	    now += 16 * time.Millisecond
//	    d.Tick(now)
//	    draw(d.RenderPlan())
//	}
package deck
