package motion

import "time"

// Interpolator maps a linear time fraction in [0, 1] to an eased fraction.
type Interpolator func(float64) float64

// Linear returns t unchanged.
func Linear(t float64) float64 { return t }

// Decelerate starts quickly and slows down towards the end.
// It is the quadratic ease-out curve 1-(1-t)².
func Decelerate(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Tween interpolates from From to To over Duration, starting at Start.
// A zero or negative Duration completes immediately at To.
type Tween struct {
	From, To float64
	Start    time.Duration
	Duration time.Duration
	Ease     Interpolator // nil means Linear
}

// Fraction returns the linear time fraction at now, clamped to [0, 1].
func (tw Tween) Fraction(now time.Duration) float64 {
	if tw.Duration <= 0 {
		return 1
	}
	f := float64(now-tw.Start) / float64(tw.Duration)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}

// At returns the interpolated value at now.
func (tw Tween) At(now time.Duration) float64 {
	f := tw.Fraction(now)
	if f >= 1 {
		return tw.To
	}
	if tw.Ease != nil {
		f = tw.Ease(f)
	}
	return tw.From + (tw.To-tw.From)*f
}

// Done reports whether the tween has reached its end at now.
func (tw Tween) Done(now time.Duration) bool {
	return now-tw.Start >= tw.Duration
}
