package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Keyer builds cache keys.
type Keyer interface {
	// FramesKey identifies the frames replayed from a gesture script.
	FramesKey(scriptHash string, opts FramesKeyOpts) string

	// ArtifactKey identifies a rendered output of a frame sequence.
	ArtifactKey(framesHash string, opts ArtifactKeyOpts) string
}

// FramesKeyOpts are the replay inputs besides the script itself.
type FramesKeyOpts struct {
	Width      int    `json:"w"`
	Height     int    `json:"h"`
	FrameRate  int    `json:"fps"`
	ConfigHash string `json:"cfg"`
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"f"`
	Style   string  `json:"s,omitempty"`
	Columns int     `json:"c,omitempty"`
	Scale   float64 `json:"x,omitempty"`
}

// DefaultKeyer hashes all key inputs.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// FramesKey returns "frames:<sha256>".
func (DefaultKeyer) FramesKey(scriptHash string, opts FramesKeyOpts) string {
	return hashKey("frames", scriptHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(framesHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", framesHash, opts)
}

func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
