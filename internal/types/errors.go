package types

import (
	"errors"
	"fmt"

	"github.com/simonhull/mediatrack/internal/binary"
)

// IOError is a transport failure: the stream could not be read or
// positioned. It is raised by internal/binary and passed through unchanged.
type IOError = binary.IOError

// ErrInvalidData matches every *InvalidDataError under errors.Is.
var ErrInvalidData = errors.New("invalid data")

// InvalidDataError is a structured parse failure: the bytes were read
// successfully but do not form a valid header.
type InvalidDataError struct {
	Path   string
	Reason string
	Offset int64
}

// NewInvalidDataError builds an InvalidDataError for the stream behind r.
func NewInvalidDataError(r *binary.Reader, offset int64, format string, args ...any) *InvalidDataError {
	return &InvalidDataError{
		Path:   r.Path(),
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
	}
}

func (e *InvalidDataError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: invalid data at offset %d: %s", e.Path, e.Offset, e.Reason)
	}
	return fmt.Sprintf("invalid data at offset %d: %s", e.Offset, e.Reason)
}

// Is reports whether target is ErrInvalidData.
func (e *InvalidDataError) Is(target error) bool {
	return target == ErrInvalidData
}

// UnsupportedFormatError is returned when no track variant exists for a
// container or the container cannot be recognized.
type UnsupportedFormatError struct {
	Path   string
	Reason string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%s: unsupported format: %s", e.Path, e.Reason)
}

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	// KindNone means no error.
	KindNone ErrorKind = iota
	// KindTransport is an I/O failure of the underlying stream.
	KindTransport
	// KindInvalidData is a structured parse failure.
	KindInvalidData
	// KindOther is any error outside the two-kind taxonomy.
	KindOther
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindTransport:
		return "transport"
	case KindInvalidData:
		return "invalid data"
	default:
		return "other"
	}
}

// KindOf classifies err. Transport failures win over invalid data when an
// error chain somehow carries both.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindNone
	}
	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return KindTransport
	}
	if errors.Is(err, ErrInvalidData) {
		return KindInvalidData
	}
	return KindOther
}

// Warning represents a non-fatal issue encountered during parsing.
//
// Warnings indicate problems that don't prevent header extraction but
// may indicate corrupted or unusual data. Examples include:
//   - An ID3v2 tag that could not be decoded
//   - A missing duration source
//   - A sample entry with an unknown codec
//
// Warnings are collected in Metadata.Warnings during parsing.
type Warning struct {
	// Stage where the warning occurred
	Stage string // "metadata", "technical"

	// Warning message
	Message string

	// Stream offset where the issue occurred (0 if not applicable)
	Offset int64
}

// String returns a human-readable warning message.
func (w Warning) String() string {
	if w.Offset > 0 {
		return fmt.Sprintf("%s (at offset %d): %s", w.Stage, w.Offset, w.Message)
	}
	return fmt.Sprintf("%s: %s", w.Stage, w.Message)
}
