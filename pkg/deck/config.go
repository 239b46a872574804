package deck

import (
	"fmt"
	"strings"
	"time"

	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/motion"
)

// Orientation selects the scroll axis.
type Orientation int

const (
	// Portrait scrolls vertically; the view length is the viewport height.
	Portrait Orientation = iota
	// Landscape scrolls horizontally; the view length is the viewport width.
	Landscape
)

// String returns "portrait" or "landscape".
func (o Orientation) String() string {
	if o == Landscape {
		return "landscape"
	}
	return "portrait"
}

// MarshalText implements encoding.TextMarshaler.
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Orientation) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "portrait", "":
		*o = Portrait
	case "landscape":
		*o = Landscape
	default:
		return fmt.Errorf("unknown orientation %q", text)
	}
	return nil
}

// Config holds the engine tunables. Lengths are fractions of the view length.
type Config struct {
	Orientation Orientation `toml:"orientation" json:"orientation"`

	// MinDistance is the item spacing once the deck holds 1/MinDistance items or more.
	MinDistance float64 `toml:"min_distance" json:"min_distance"`

	// MaxOverscroll is the elastic travel beyond either end.
	MaxOverscroll float64 `toml:"max_overscroll" json:"max_overscroll"`

	// MaxLandingArea is the length of the interpolated zone.
	MaxLandingArea float64 `toml:"max_landing_area" json:"max_landing_area"`

	// LandingEqualDistance makes the landing area as long as the item spacing.
	LandingEqualDistance bool `toml:"landing_equal_distance" json:"landing_equal_distance"`

	// MaxTilt is the tilt (degrees) at full overscroll.
	MaxTilt float64 `toml:"max_tilt" json:"max_tilt"`

	OverscrollResetDuration time.Duration `toml:"overscroll_reset_duration" json:"overscroll_reset_duration"`
	RemoveDuration          time.Duration `toml:"remove_duration" json:"remove_duration"`
	ClearAllStagger         time.Duration `toml:"clear_all_stagger" json:"clear_all_stagger"`

	// TouchSlop is the drag distance (pixels) before a gesture is claimed.
	TouchSlop float64 `toml:"touch_slop" json:"touch_slop"`

	// MinFlingVelocity is the release speed (pixels/s) that starts a fling.
	MinFlingVelocity float64 `toml:"min_fling_velocity" json:"min_fling_velocity"`

	// StartPadding is the fixed offset of every card's anchor from its top edge.
	StartPadding float64 `toml:"start_padding" json:"start_padding"`

	Fling motion.ScrollerConfig `toml:"fling" json:"fling"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Orientation:             Portrait,
		MinDistance:             0.2,
		MaxOverscroll:           0.2,
		MaxLandingArea:          0.5,
		MaxTilt:                 5,
		OverscrollResetDuration: 500 * time.Millisecond,
		RemoveDuration:          1000 * time.Millisecond,
		ClearAllStagger:         150 * time.Millisecond,
		TouchSlop:               16,
		MinFlingVelocity:        50,
		Fling:                   motion.DefaultScrollerConfig(),
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if err := errs.ValidateFraction("min_distance", c.MinDistance, 1); err != nil {
		return err
	}
	if err := errs.ValidateFraction("max_overscroll", c.MaxOverscroll, 1); err != nil {
		return err
	}
	if err := errs.ValidateFraction("max_landing_area", c.MaxLandingArea, 1); err != nil {
		return err
	}
	if c.MaxTilt < 0 || c.MaxTilt > 90 {
		return errs.New(errs.ErrCodeInvalidConfig, "max_tilt must be in [0, 90], got %g", c.MaxTilt)
	}
	for _, d := range []struct {
		name  string
		value time.Duration
	}{
		{"overscroll_reset_duration", c.OverscrollResetDuration},
		{"remove_duration", c.RemoveDuration},
		{"clear_all_stagger", c.ClearAllStagger},
	} {
		if d.value < 0 {
			return errs.New(errs.ErrCodeInvalidConfig, "%s must not be negative, got %s", d.name, d.value)
		}
	}
	if c.TouchSlop < 0 || c.MinFlingVelocity < 0 || c.StartPadding < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "touch_slop, min_fling_velocity and start_padding must not be negative")
	}
	if c.Fling.Deceleration <= 0 || c.Fling.FrameRate <= 0 || c.Fling.SpringFrequency <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "fling deceleration, frame_rate and spring_frequency must be positive")
	}
	return nil
}
