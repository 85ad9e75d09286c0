package snapshot

import "errors"

var (
	ErrInvalidMagic       = errors.New("snapshot: invalid magic")
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	ErrChecksumMismatch   = errors.New("snapshot: checksum mismatch")
	ErrTruncated          = errors.New("snapshot: truncated data")
	ErrEmptySeries        = errors.New("snapshot: empty series")
	ErrLengthMismatch     = errors.New("snapshot: column length mismatch")
	ErrSeriesIDMismatch   = errors.New("snapshot: series id does not match name")
	ErrNameTooLong        = errors.New("snapshot: name too long")
	ErrTooManyRows        = errors.New("snapshot: too many rows")
)
