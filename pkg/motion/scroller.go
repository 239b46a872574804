package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
)

// ScrollerConfig tunes the fling trajectory.
type ScrollerConfig struct {
	// Deceleration is the exponential friction rate per second while coasting.
	Deceleration float64 `toml:"deceleration" json:"deceleration"`

	// MinVelocity is the speed (units/s) below which coasting stops.
	MinVelocity float64 `toml:"min_velocity" json:"min_velocity"`

	// SpringFrequency and SpringDamping configure the edge spring
	// (angular frequency and damping ratio as understood by harmonica).
	SpringFrequency float64 `toml:"spring_frequency" json:"spring_frequency"`
	SpringDamping   float64 `toml:"spring_damping" json:"spring_damping"`

	// FrameRate is the fixed step rate the spring is integrated at.
	FrameRate int `toml:"frame_rate" json:"frame_rate"`
}

// DefaultScrollerConfig returns the tuning used by the deck engine.
func DefaultScrollerConfig() ScrollerConfig {
	return ScrollerConfig{
		Deceleration:    3.5,
		MinVelocity:     50,
		SpringFrequency: 12,
		SpringDamping:   1,
		FrameRate:       60,
	}
}

// settleDistance is how close the spring must get to its rest position
// (together with a speed below MinVelocity) before it snaps and finishes.
const settleDistance = 0.5

type scrollPhase int

const (
	phaseIdle scrollPhase = iota
	phaseCoast
	phaseSpring
)

// Scroller computes a decelerating 1-D trajectory bounded to [min, max] with
// elastic ends of length over. It mirrors a platform fling scroller: call
// [Scroller.Fling] once and then sample it every frame with [Scroller.Compute].
type Scroller struct {
	cfg    ScrollerConfig
	spring harmonica.Spring
	step   time.Duration

	phase        scrollPhase
	min, max     float64
	over         float64
	start        time.Duration
	origin       float64
	velocity     float64
	coastEnd     float64 // seconds after start
	coastFinal   float64
	edgeAt       float64 // seconds after start, <0 when the coast stays in bounds
	edge         float64
	edgeVelocity float64
	pos, vel     float64
	target       float64
	lastStep     time.Duration
}

// NewScroller creates an idle scroller.
func NewScroller(cfg ScrollerConfig) *Scroller {
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultScrollerConfig().FrameRate
	}
	if cfg.Deceleration <= 0 {
		cfg.Deceleration = DefaultScrollerConfig().Deceleration
	}
	return &Scroller{
		cfg:    cfg,
		spring: harmonica.NewSpring(harmonica.FPS(cfg.FrameRate), cfg.SpringFrequency, cfg.SpringDamping),
		step:   time.Second / time.Duration(cfg.FrameRate),
	}
}

// Fling starts a trajectory at start with the given velocity (units/s).
// Any running trajectory is replaced.
func (s *Scroller) Fling(start, velocity, min, max, over float64, now time.Duration) {
	s.min, s.max, s.over = min, max, over
	s.start = now
	s.origin = start
	s.velocity = velocity

	if start < min || start > max || (start == min && velocity < 0) || (start == max && velocity > 0) {
		s.enterSpring(start, velocity, now)
		return
	}

	k := s.cfg.Deceleration
	speed := math.Abs(velocity)
	if speed <= s.cfg.MinVelocity {
		s.coastEnd = 0
		s.coastFinal = start
	} else {
		s.coastEnd = math.Log(speed/s.cfg.MinVelocity) / k
		s.coastFinal = start + (velocity-math.Copysign(s.cfg.MinVelocity, velocity))/k
	}

	s.edgeAt = -1
	bound := max
	if velocity < 0 {
		bound = min
	}
	if dist := bound - start; math.Abs(dist) < math.Abs(s.coastFinal-start) {
		s.edgeAt = -math.Log(1-dist*k/velocity) / k
		s.edge = bound
		s.edgeVelocity = velocity - dist*k
	}
	s.phase = phaseCoast
}

func (s *Scroller) enterSpring(pos, vel float64, at time.Duration) {
	s.phase = phaseSpring
	s.pos, s.vel = pos, vel
	s.target = math.Min(math.Max(pos, s.min), s.max)
	s.lastStep = at
}

// Compute advances the trajectory to now. It returns the current position and
// true while the trajectory is running, including the frame on which it
// completes; afterwards it returns false.
func (s *Scroller) Compute(now time.Duration) (float64, bool) {
	switch s.phase {
	case phaseCoast:
		t := (now - s.start).Seconds()
		if s.edgeAt >= 0 && t >= s.edgeAt {
			at := s.start + time.Duration(s.edgeAt*float64(time.Second))
			s.enterSpring(s.edge, s.edgeVelocity, at)
			return s.computeSpring(now)
		}
		if t >= s.coastEnd {
			s.phase = phaseIdle
			s.pos = s.coastFinal
			return s.pos, true
		}
		k := s.cfg.Deceleration
		s.pos = s.origin + s.velocity/k*(1-math.Exp(-k*t))
		return s.pos, true
	case phaseSpring:
		return s.computeSpring(now)
	}
	return s.pos, false
}

func (s *Scroller) computeSpring(now time.Duration) (float64, bool) {
	lo, hi := s.min-s.over, s.max+s.over
	for now-s.lastStep >= s.step {
		s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
		if s.pos < lo {
			s.pos, s.vel = lo, 0
		} else if s.pos > hi {
			s.pos, s.vel = hi, 0
		}
		s.lastStep += s.step

		if math.Abs(s.pos-s.target) < settleDistance && math.Abs(s.vel) < s.cfg.MinVelocity {
			s.pos, s.vel = s.target, 0
			s.phase = phaseIdle
			return s.pos, true
		}
	}
	return s.pos, true
}

// ForceFinished stops the trajectory where it is.
func (s *Scroller) ForceFinished() {
	s.phase = phaseIdle
}

// Finished reports whether no trajectory is running.
func (s *Scroller) Finished() bool {
	return s.phase == phaseIdle
}

// FinalPosition returns where a running coast comes to rest if it never
// touches a boundary, or the boundary it springs back to.
func (s *Scroller) FinalPosition() float64 {
	switch s.phase {
	case phaseCoast:
		if s.edgeAt >= 0 {
			return s.edge
		}
		return s.coastFinal
	case phaseSpring:
		return s.target
	}
	return s.pos
}
