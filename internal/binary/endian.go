package binary

import "encoding/binary"

// Endianness represents byte order for multi-byte values.
type Endianness int

const (
	// BigEndian uses big-endian byte order.
	// Used by: MPEG audio frames, MP4 atoms, FLAC, EBML.
	BigEndian Endianness = iota

	// LittleEndian uses little-endian byte order.
	// Used by: Ogg pages, Vorbis and Opus headers, RIFF/WAVE.
	LittleEndian
)

// ReadBE reads a numeric value of type T from the current position using big-endian byte order.
//
// Example:
//
//	header, err := binary.ReadBE[uint32](r, "frame header")
func ReadBE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return ReadEndian[T](r, what, BigEndian)
}

// ReadLE reads a numeric value of type T from the current position using little-endian byte order.
//
// Example:
//
//	granule, err := binary.ReadLE[uint64](r, "granule position")
func ReadLE[T uint8 | uint16 | uint32 | uint64](r *Reader, what string) (T, error) {
	return ReadEndian[T](r, what, LittleEndian)
}

// ReadEndian reads a numeric value of type T with the specified byte order
// and advances the stream by its size.
//
// Most code should use ReadBE or ReadLE instead.
func ReadEndian[T uint8 | uint16 | uint32 | uint64](r *Reader, what string, endian Endianness) (T, error) {
	var zero T
	buf := make([]byte, sizeOf[T]())
	if err := r.ReadFull(buf, what); err != nil {
		return zero, err
	}
	return Decode[T](buf, endian), nil
}

// Decode converts the leading bytes of buf into a value of type T.
// buf must hold at least the size of T.
func Decode[T uint8 | uint16 | uint32 | uint64](buf []byte, endian Endianness) T {
	var zero T
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	switch any(zero).(type) {
	case uint8:
		return T(buf[0])
	case uint16:
		return T(order.Uint16(buf))
	case uint32:
		return T(order.Uint32(buf))
	case uint64:
		return T(order.Uint64(buf))
	}
	return zero
}

func sizeOf[T uint8 | uint16 | uint32 | uint64]() int {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return 1
	case uint16:
		return 2
	case uint32:
		return 4
	default:
		return 8
	}
}
