// Package motion provides the animation primitives used by the card deck engine.
//
// Every animation in this package keeps its state explicitly (start time,
// start value, velocity) and is advanced by sampling it with a monotonic
// timestamp supplied by the host. Nothing here owns a goroutine or a timer:
// a render loop calls into the animation once per frame and reads back the
// current value.
//
// # Primitives
//
//   - [Tween]: interpolates between two values over a fixed duration using an
//     [Interpolator] such as [Decelerate].
//   - [Scroller]: a one-dimensional fling trajectory. It coasts with
//     exponential friction and, when it runs into a boundary, hands over to a
//     damped spring (github.com/charmbracelet/harmonica) that overshoots by at
//     most the configured elastic length and settles back onto the boundary.
//   - [VelocityTracker]: estimates pointer velocity from timestamped samples.
//
// # Example
//
//	tw := motion.Tween{From: 1, To: 0, Start: now, Duration: 250 * time.Millisecond, Ease: motion.Decelerate}
//	for !tw.Done(now) {
//	    now = nextFrame()
//	    progress := tw.At(now)
//	    ...
//	}
package motion
