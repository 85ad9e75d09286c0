package regression

import "errors"

// ErrUnsupportedKind is returned by the factory for an unknown model kind.
var ErrUnsupportedKind = errors.New("regression: unsupported model kind")

// Internal failure signals of the protected fit paths. They never leave the package.
var (
	errNumericOverflow = errors.New("regression: numeric overflow")
	errNonPositive     = errors.New("regression: non-positive value")
	errSingular        = errors.New("regression: singular system")
)
