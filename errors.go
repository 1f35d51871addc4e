package mediatrack

import (
	"github.com/simonhull/mediatrack/internal/types"
)

// IOError is a transport failure: the stream could not be read or
// positioned. Errors from the stream are wrapped, never converted.
type IOError = types.IOError

// InvalidDataError is a structured parse failure: the bytes were read but
// do not form a valid header. Every InvalidDataError matches ErrInvalidData.
type InvalidDataError = types.InvalidDataError

// UnsupportedFormatError is returned when no track variant exists for a
// container or the container cannot be recognized.
type UnsupportedFormatError = types.UnsupportedFormatError

// Warning is a non-fatal issue found during a parse.
type Warning = types.Warning

// ErrInvalidData matches every *InvalidDataError under errors.Is.
var ErrInvalidData = types.ErrInvalidData

// ErrorKind classifies a parse failure.
type ErrorKind = types.ErrorKind

// Error kinds.
const (
	KindNone        = types.KindNone
	KindTransport   = types.KindTransport
	KindInvalidData = types.KindInvalidData
	KindOther       = types.KindOther
)

// KindOf classifies err as a transport failure, invalid data, or neither.
func KindOf(err error) ErrorKind {
	return types.KindOf(err)
}
