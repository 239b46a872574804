package motion

import "time"

// velocityHorizon bounds how far back samples contribute to the estimate.
const velocityHorizon = 100 * time.Millisecond

type sample struct {
	pos float64
	at  time.Duration
}

// VelocityTracker estimates the velocity of a pointer along one axis.
// The estimate is the least-squares slope over the samples of the last 100ms.
// The zero value is ready to use.
type VelocityTracker struct {
	samples []sample
}

// Clear drops all samples.
func (v *VelocityTracker) Clear() {
	v.samples = v.samples[:0]
}

// Add records the pointer position at time at.
// Samples older than the horizon relative to at are discarded.
func (v *VelocityTracker) Add(pos float64, at time.Duration) {
	v.samples = append(v.samples, sample{pos: pos, at: at})
	drop := 0
	for drop < len(v.samples)-1 && at-v.samples[drop].at > velocityHorizon {
		drop++
	}
	if drop > 0 {
		v.samples = append(v.samples[:0], v.samples[drop:]...)
	}
}

// Velocity returns the estimated velocity in units per second.
// Fewer than two samples, or samples that all share one timestamp, yield 0.
func (v *VelocityTracker) Velocity() float64 {
	n := len(v.samples)
	if n < 2 {
		return 0
	}

	var meanT, meanX float64
	for _, s := range v.samples {
		meanT += s.at.Seconds()
		meanX += s.pos
	}
	meanT /= float64(n)
	meanX /= float64(n)

	var num, den float64
	for _, s := range v.samples {
		dt := s.at.Seconds() - meanT
		num += dt * (s.pos - meanX)
		den += dt * dt
	}
	if den == 0 {
		return 0
	}
	return num / den
}
