package types

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

func TestKindOf(t *testing.T) {
	ioErr := &IOError{Path: "a.mp3", What: "frame header", Offset: 4, Err: io.ErrUnexpectedEOF}
	invalid := &InvalidDataError{Path: "a.mp3", Offset: 0, Reason: "bad sync"}

	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, KindNone},
		{"io", ioErr, KindTransport},
		{"wrapped io", fmt.Errorf("parse: %w", ioErr), KindTransport},
		{"invalid", invalid, KindInvalidData},
		{"wrapped invalid", fmt.Errorf("parse: %w", invalid), KindInvalidData},
		{"other", errors.New("boom"), KindOther},
		{"unsupported", &UnsupportedFormatError{Path: "x", Reason: "y"}, KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInvalidDataError(t *testing.T) {
	err := &InvalidDataError{Path: "song.mp3", Offset: 12, Reason: "bad sync"}

	if !errors.Is(err, ErrInvalidData) {
		t.Error("errors.Is(err, ErrInvalidData) = false")
	}
	if got := err.Error(); got != "song.mp3: invalid data at offset 12: bad sync" {
		t.Errorf("Error() = %q", got)
	}

	noPath := &InvalidDataError{Offset: 3, Reason: "x"}
	if got := noPath.Error(); got != "invalid data at offset 3: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestParseState(t *testing.T) {
	var zero ParseState
	if zero.Status != StatusUnparsed || zero.Valid() || zero.Kind() != KindNone {
		t.Errorf("zero state = %+v, want unparsed", zero)
	}
	if zero.String() != "unparsed" {
		t.Errorf("String() = %q", zero.String())
	}

	valid := ParseState{Status: StatusValid}
	if !valid.Valid() || valid.String() != "valid" {
		t.Errorf("valid state = %+v", valid)
	}

	invalid := ParseState{Status: StatusInvalid, Err: &InvalidDataError{Reason: "bad"}}
	if invalid.Valid() {
		t.Error("invalid state reported valid")
	}
	if invalid.Kind() != KindInvalidData {
		t.Errorf("Kind() = %v, want invalid data", invalid.Kind())
	}
	if invalid.String() != "invalid: invalid data at offset 0: bad" {
		t.Errorf("String() = %q", invalid.String())
	}
}
