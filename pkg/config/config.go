// Package config loads cardstack configuration files.
//
// A configuration file is TOML. Every section is optional; missing values
// keep their defaults, unknown keys are rejected:
//
//	[viewport]
//	width = 600
//	height = 1000
//
//	[deck]
//	orientation = "portrait"
//	min_distance = 0.2
//	overscroll_reset_duration = "500ms"
//
//	[deck.fling]
//	deceleration = 3.5
//
//	[render]
//	frame_rate = 60
//	format = "svg"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cardstack/pkg/deck"
	errs "github.com/matzehuels/cardstack/pkg/errors"
	"github.com/matzehuels/cardstack/pkg/render/sink"
)

// Config is the complete configuration.
type Config struct {
	Viewport Viewport    `toml:"viewport" json:"viewport"`
	Deck     deck.Config `toml:"deck" json:"deck"`
	Render   Render      `toml:"render" json:"render"`
	Server   Server      `toml:"server" json:"server"`
}

// Viewport is the host surface the deck is laid out in.
type Viewport struct {
	Width  int `toml:"width" json:"width"`
	Height int `toml:"height" json:"height"`
}

// Render controls frame sampling and output.
type Render struct {
	// FrameRate is how often a script replay samples the deck.
	FrameRate int `toml:"frame_rate" json:"frame_rate"`

	// Format is the default output format (json, svg, text, png, pdf).
	Format string `toml:"format" json:"format"`

	// Style is the SVG card style (flat, outline).
	Style string `toml:"style" json:"style"`

	// Scale is the size of an SVG frame panel relative to the viewport.
	Scale float64 `toml:"scale" json:"scale"`

	// Columns is the number of frames per row in SVG strips.
	Columns int `toml:"columns" json:"columns"`

	// CardPadding is the padding around card content, in pixels.
	CardPadding int `toml:"card_padding" json:"card_padding"`
}

// Server configures `cardstack serve`.
type Server struct {
	Addr        string        `toml:"addr" json:"addr"`
	MaxSessions int           `toml:"max_sessions" json:"max_sessions"`
	SessionTTL  time.Duration `toml:"session_ttl" json:"session_ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Viewport: Viewport{Width: 600, Height: 1000},
		Deck:     deck.DefaultConfig(),
		Render: Render{
			FrameRate:   60,
			Format:      sink.FormatSVG,
			Style:       "flat",
			Scale:       0.25,
			Columns:     6,
			CardPadding: 15,
		},
		Server: Server{
			Addr:        ":8080",
			MaxSessions: 256,
			SessionTTL:  30 * time.Minute,
		},
	}
}

// Load reads path on top of the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Config{}, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
	}
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes TOML on top of the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, errs.New(errs.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := errs.ValidateViewport(c.Viewport.Width, c.Viewport.Height); err != nil {
		return err
	}
	if err := c.Deck.Validate(); err != nil {
		return err
	}
	if c.Render.FrameRate <= 0 || c.Render.FrameRate > 240 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.frame_rate must be in [1, 240], got %d", c.Render.FrameRate)
	}
	if err := ValidateFormat(c.Render.Format); err != nil {
		return err
	}
	if _, err := sink.StyleByName(c.Render.Style); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "render.style")
	}
	if c.Render.Scale <= 0 || c.Render.Scale > 4 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.scale must be in (0, 4], got %g", c.Render.Scale)
	}
	if c.Render.Columns <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.columns must be positive, got %d", c.Render.Columns)
	}
	if c.Render.CardPadding < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "render.card_padding must not be negative, got %d", c.Render.CardPadding)
	}
	if c.Server.MaxSessions <= 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.max_sessions must be positive, got %d", c.Server.MaxSessions)
	}
	if c.Server.SessionTTL < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "server.session_ttl must not be negative")
	}
	return nil
}

// ValidateFormat reports whether f is a supported render format.
func ValidateFormat(f string) error {
	if slices.Contains(sink.Formats, f) {
		return nil
	}
	return errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q (want one of %s)", f, strings.Join(sink.Formats, ", "))
}

// Encode writes c as TOML, used by `cardstack config`.
func (c Config) Encode() ([]byte, error) {
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(c); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInternal, err, "encode config")
	}
	return []byte(b.String()), nil
}
