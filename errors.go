package darkroom

import "errors"

// Error kinds surfaced by darkroom. GPU errors never escape the engine's
// fallback chain; they are returned only by the low-level processor API.
var (
	// ErrDecode indicates an unsupported or corrupt image buffer.
	ErrDecode = errors.New("darkroom: decode failed")

	// ErrGPUUnavailable indicates no compatible GPU device was found.
	ErrGPUUnavailable = errors.New("darkroom: no compatible GPU device")

	// ErrInvalidDimensions indicates a pixel buffer whose length does not
	// match width*height*4.
	ErrInvalidDimensions = errors.New("darkroom: pixel buffer does not match dimensions")
)
