package errors

import (
	"strings"
	"unicode"
)

// maxHandleLength bounds item handles accepted from scripts and HTTP clients.
const maxHandleLength = 128

// ValidateHandle validates an item handle supplied by an external host.
// Handles are opaque to the engine, but they end up in JSON, SVG ids and log
// lines, so they must be short printable strings.
func ValidateHandle(h string) error {
	if h == "" {
		return New(ErrCodeInvalidHandle, "handle cannot be empty")
	}
	if len(h) > maxHandleLength {
		return New(ErrCodeInvalidHandle, "handle too long (max %d characters)", maxHandleLength)
	}
	for _, r := range h {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidHandle, "handle contains invalid control characters")
		}
	}
	if strings.ContainsAny(h, `"<>&'`) {
		return New(ErrCodeInvalidHandle, "handle contains markup characters")
	}
	return nil
}

// ValidateViewport validates viewport dimensions in pixels.
func ValidateViewport(width, height int) error {
	const maxDimension = 1 << 16
	if width < 0 || height < 0 {
		return New(ErrCodeInvalidInput, "viewport dimensions must not be negative (%dx%d)", width, height)
	}
	if width > maxDimension || height > maxDimension {
		return New(ErrCodeInvalidInput, "viewport too large (max %d pixels per side)", maxDimension)
	}
	return nil
}

// ValidateFraction validates that v lies in (0, max].
func ValidateFraction(name string, v, max float64) error {
	if !(v > 0 && v <= max) {
		return New(ErrCodeInvalidConfig, "%s must be in (0, %g], got %g", name, max, v)
	}
	return nil
}
