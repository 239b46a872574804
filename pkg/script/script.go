// Package script describes deck interactions as TOML gesture scripts and
// replays them deterministically into frames.
//
// A script lists the initial items and a sequence of timestamped steps:
//
//	name = "fling past the end"
//	items = ["mail", "maps", "music", "notes", "camera"]
//
//	[[step]]
//	at = "0ms"
//	action = "press"
//	pos = 300
//
//	[[step]]
//	at = "48ms"
//	action = "release"
//	pos = 120
//
// Timestamps are absolute and must not decrease. Instead of items a script may
// give a count; the handles are then derived from the script name, so replays
// stay reproducible.
package script

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"

	errs "github.com/matzehuels/cardstack/pkg/errors"
)

// Action is what a step does to the deck.
type Action string

const (
	Press   Action = "press"   // touch down at pos
	Move    Action = "move"    // drag to pos
	Release Action = "release" // touch up at pos
	Fling   Action = "fling"   // fling with velocity
	Add     Action = "add"     // append handle
	Remove  Action = "remove"  // dismiss handle
	Clear   Action = "clear"   // dismiss all but the most recent
	Resize  Action = "resize"  // new viewport width x height
	Settle  Action = "settle"  // animate overscroll back
)

var actions = map[Action]bool{
	Press: true, Move: true, Release: true, Fling: true,
	Add: true, Remove: true, Clear: true, Resize: true, Settle: true,
}

// Step is one timestamped input.
type Step struct {
	At       time.Duration `toml:"at" json:"at"`
	Action   Action        `toml:"action" json:"action"`
	Pos      float64       `toml:"pos" json:"pos,omitempty"`
	Velocity float64       `toml:"velocity" json:"velocity,omitempty"`
	Handle   string        `toml:"handle" json:"handle,omitempty"`
	Width    int           `toml:"width" json:"width,omitempty"`
	Height   int           `toml:"height" json:"height,omitempty"`
}

// Script is a parsed gesture script.
type Script struct {
	Name  string   `toml:"name" json:"name"`
	Items []string `toml:"items" json:"items,omitempty"`
	Count int      `toml:"count" json:"count,omitempty"`
	Steps []Step   `toml:"step" json:"steps"`
}

// handleNamespace seeds generated item handles.
var handleNamespace = uuid.MustParse("6f1d5b8e-93a4-4c1e-9a57-1c0d4e0b7a21")

// Load reads and validates the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "script %s", path)
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScript, err, "read script %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML script.
func Parse(data []byte) (*Script, error) {
	var s Script
	md, err := toml.Decode(string(data), &s)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidScript, err, "decode script")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errs.New(errs.ErrCodeInvalidScript, "unknown key %s", undecoded[0])
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks handles, actions and step order.
func (s *Script) Validate() error {
	if len(s.Items) > 0 && s.Count > 0 {
		return errs.New(errs.ErrCodeInvalidScript, "items and count are mutually exclusive")
	}
	if s.Count < 0 || s.Count > 10000 {
		return errs.New(errs.ErrCodeInvalidScript, "count must be in [0, 10000], got %d", s.Count)
	}
	for _, h := range s.Items {
		if err := errs.ValidateHandle(h); err != nil {
			return err
		}
	}

	var last time.Duration
	for i, st := range s.Steps {
		where := fmt.Sprintf("step %d (%s)", i+1, st.Action)
		if !actions[st.Action] {
			return errs.New(errs.ErrCodeInvalidScript, "step %d: unknown action %q", i+1, st.Action)
		}
		if st.At < 0 {
			return errs.New(errs.ErrCodeInvalidScript, "%s: negative time %s", where, st.At)
		}
		if st.At < last {
			return errs.New(errs.ErrCodeInvalidScript, "%s: time %s before previous step at %s", where, st.At, last)
		}
		last = st.At

		switch st.Action {
		case Add, Remove:
			if err := errs.ValidateHandle(st.Handle); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidScript, err, "%s", where)
			}
		case Resize:
			if st.Width <= 0 || st.Height <= 0 {
				return errs.New(errs.ErrCodeInvalidScript, "%s: width and height must be positive", where)
			}
			if err := errs.ValidateViewport(st.Width, st.Height); err != nil {
				return errs.Wrap(errs.ErrCodeInvalidScript, err, "%s", where)
			}
		}
	}
	return nil
}

// Handles returns the initial item handles.
func (s *Script) Handles() []string {
	if s.Count == 0 {
		return s.Items
	}
	out := make([]string, s.Count)
	for i := range out {
		id := uuid.NewSHA1(handleNamespace, []byte(fmt.Sprintf("%s/%d", s.Name, i)))
		out[i] = id.String()[:8]
	}
	return out
}

// Duration is the time of the last step.
func (s *Script) Duration() time.Duration {
	if len(s.Steps) == 0 {
		return 0
	}
	return s.Steps[len(s.Steps)-1].At
}
