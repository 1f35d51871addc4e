package binary

import (
	"encoding/binary"
	"io"
)

// Writer wraps an io.Writer with position tracking. It is the write-side
// counterpart of Reader and is what a track's output handle is wrapped in.
type Writer struct {
	w      io.Writer
	offset int64
}

// NewWriter creates a new Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.offset
}

// WriteBytes writes raw bytes to the underlying writer.
func (w *Writer) WriteBytes(b []byte) error {
	n, err := w.w.Write(b)
	w.offset += int64(n)
	return err
}

// WriteString writes a string as bytes to the underlying writer.
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// Zeros writes n zero bytes.
func (w *Writer) Zeros(n int) error {
	if n <= 0 {
		return nil
	}
	return w.WriteBytes(make([]byte, n))
}

// Write writes a value of type T in big-endian byte order.
func Write[T uint8 | uint16 | uint32 | uint64](w *Writer, val T) error {
	return WriteEndian(w, val, BigEndian)
}

// WriteLE writes a value of type T in little-endian byte order.
func WriteLE[T uint8 | uint16 | uint32 | uint64](w *Writer, val T) error {
	return WriteEndian(w, val, LittleEndian)
}

// WriteEndian writes a value of type T with the given byte order.
func WriteEndian[T uint8 | uint16 | uint32 | uint64](w *Writer, val T, endian Endianness) error {
	var order binary.ByteOrder = binary.BigEndian
	if endian == LittleEndian {
		order = binary.LittleEndian
	}

	buf := make([]byte, sizeOf[T]())
	switch v := any(val).(type) {
	case uint8:
		buf[0] = v
	case uint16:
		order.PutUint16(buf, v)
	case uint32:
		order.PutUint32(buf, v)
	case uint64:
		order.PutUint64(buf, v)
	}

	return w.WriteBytes(buf)
}
