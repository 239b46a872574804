package deck

import "math"

// Transform is the bijection between scroll space and view space.
//
// Scroll positions passed to [Transform.ToView] are relative to the current
// scroll offset. Inside the landing area the parabola compresses the
// neighbourhood (-L, L) into [0, L); elsewhere the mapping is the identity.
// Both directions are monotonically non-decreasing.
type Transform struct {
	LandingArea int
	ViewLength  int
	BottomCap   int
}

// ToView converts a relative scroll position to a view position clamped to
// [0, BottomCap].
func (t Transform) ToView(p float64) float64 {
	l := float64(t.LandingArea)
	if p > -l && p < l {
		f := (p + l) / (2 * l)
		p = f * f * l
	}

	if p < 0 {
		return 0
	} else if p > float64(t.BottomCap) {
		return float64(t.BottomCap)
	}
	return p
}

// ToScroll converts a view position to a relative scroll position. The result
// is never below -LandingArea and, unless ignoreLength is set, never above
// ViewLength. With a zero landing area the nonlinear branch is disabled.
func (t Transform) ToScroll(v float64, ignoreLength bool) float64 {
	l := float64(t.LandingArea)
	if v < l {
		if v <= 0 {
			v = -l
		} else {
			v = math.Sqrt(v/l)*2*l - l
		}
	}

	if v < -l {
		v = -l
	} else if v > float64(t.ViewLength) && !ignoreLength {
		v = float64(t.ViewLength)
	}
	return v
}

// positionCalculator hands out scroll positions for items that are equally
// spaced in the view when nothing is stacked on top.
type positionCalculator struct {
	cursor int // view space
}

func (c *positionCalculator) reset() {
	// First item is always at view position 0.
	c.cursor = 0
}

func (c *positionCalculator) next(t Transform, distance int) int {
	pos := int(t.ToScroll(float64(c.cursor), true))
	c.cursor += distance
	return pos
}
