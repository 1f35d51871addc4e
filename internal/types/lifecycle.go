package types

import "github.com/simonhull/mediatrack/internal/binary"

// Decoder is implemented by every track variant.
//
// ParseHeader reads header fields from the current position of r and
// populates m. It must keep the field conventions of Metadata: bitrates in
// kbit/s, sample rates in Hz, and zero for anything it cannot determine.
// Stream failures are returned as they come from r; malformed headers are
// reported with an *InvalidDataError.
type Decoder interface {
	ParseHeader(r *binary.Reader, m *Metadata) error
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc func(r *binary.Reader, m *Metadata) error

// ParseHeader calls f(r, m).
func (f DecoderFunc) ParseHeader(r *binary.Reader, m *Metadata) error {
	return f(r, m)
}

// ParseHeader runs the parse lifecycle for one track: position r at
// startOffset, start from fresh defaults and let dec fill them in.
//
// Errors from the seek and from dec are returned unchanged; no metadata is
// returned with them.
func ParseHeader(dec Decoder, r *binary.Reader, startOffset int64) (*Metadata, error) {
	if err := r.SeekTo(startOffset, "track start offset"); err != nil {
		return nil, err
	}

	m := NewMetadata()
	if err := dec.ParseHeader(r, m); err != nil {
		return nil, err
	}
	return m, nil
}
