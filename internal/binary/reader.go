// Package binary provides sequential binary reading and writing primitives over seekable streams.
package binary

import (
	"fmt"
	"io"
)

// Reader wraps an io.ReadSeeker with typed reads, offset tracking and
// helpful error messages. Every failure of the underlying stream is
// reported as an *IOError.
//
// Reader also implements io.ReadSeeker itself so it can be handed to
// third-party decoders; those raw methods return the stream's errors
// unchanged.
type Reader struct {
	rs   io.ReadSeeker
	path string
	pos  int64
}

// NewReader creates a Reader positioned wherever rs currently is.
// path is only used in error messages and may be empty.
func NewReader(rs io.ReadSeeker, path string) *Reader {
	r := &Reader{rs: rs, path: path}
	if pos, err := rs.Seek(0, io.SeekCurrent); err == nil {
		r.pos = pos
	}
	return r
}

// Path returns the path associated with this reader.
func (r *Reader) Path() string {
	return r.path
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.rs.Read(p)
	r.pos += int64(n)
	return n, err
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.rs.Seek(offset, whence)
	if err == nil {
		r.pos = pos
	}
	return pos, err
}

// Offset returns the current stream position as tracked by the reader.
func (r *Reader) Offset() int64 {
	return r.pos
}

// SeekTo moves to an absolute offset.
func (r *Reader) SeekTo(off int64, what string) error {
	if off < 0 {
		return r.fail(what, fmt.Errorf("negative offset %d", off))
	}
	if _, err := r.Seek(off, io.SeekStart); err != nil {
		return r.fail(what, err)
	}
	return nil
}

// Skip moves n bytes relative to the current position.
func (r *Reader) Skip(n int64, what string) error {
	if _, err := r.Seek(n, io.SeekCurrent); err != nil {
		return r.fail(what, err)
	}
	return nil
}

// Size returns the total stream size. The current position is restored.
func (r *Reader) Size() (int64, error) {
	cur := r.pos
	end, err := r.rs.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, r.fail("stream size", err)
	}
	if _, err := r.rs.Seek(cur, io.SeekStart); err != nil {
		return 0, r.fail("stream size", err)
	}
	return end, nil
}

// ReadFull fills b from the current position.
func (r *Reader) ReadFull(b []byte, what string) error {
	start := r.pos
	n, err := io.ReadFull(r.rs, b)
	r.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return &IOError{
				Path:   r.path,
				What:   what,
				Offset: start,
				Err:    fmt.Errorf("short read: got %d bytes, expected %d: %w", n, len(b), io.ErrUnexpectedEOF),
			}
		}
		return &IOError{Path: r.path, What: what, Offset: start, Err: err}
	}
	return nil
}

// ReadBytes reads exactly n bytes.
func (r *Reader) ReadBytes(n int, what string) ([]byte, error) {
	if n < 0 {
		return nil, r.fail(what, fmt.Errorf("negative length %d", n))
	}
	buf := make([]byte, n)
	if err := r.ReadFull(buf, what); err != nil {
		return nil, err
	}
	return buf, nil
}

// ReadBytesAt seeks to off and reads exactly n bytes.
func (r *Reader) ReadBytesAt(off int64, n int, what string) ([]byte, error) {
	if err := r.SeekTo(off, what); err != nil {
		return nil, err
	}
	return r.ReadBytes(n, what)
}

// ReadString reads a string of the given length.
func (r *Reader) ReadString(length int, what string) (string, error) {
	buf, err := r.ReadBytes(length, what)
	if err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadUint32BE reads a big-endian 32-bit word.
func (r *Reader) ReadUint32BE(what string) (uint32, error) {
	return ReadBE[uint32](r, what)
}

// ReadUint64BE reads a big-endian 64-bit word.
func (r *Reader) ReadUint64BE(what string) (uint64, error) {
	return ReadBE[uint64](r, what)
}

func (r *Reader) fail(what string, err error) *IOError {
	return &IOError{Path: r.path, What: what, Offset: r.pos, Err: err}
}

// IOError reports a failure of the underlying stream: a read, a seek, or
// a read that ran past the end of the data.
type IOError struct {
	Err    error
	Path   string
	What   string
	Offset int64
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: i/o error at offset %d while reading %s: %v", e.Path, e.Offset, e.What, e.Err)
	}
	return fmt.Sprintf("i/o error at offset %d while reading %s: %v", e.Offset, e.What, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ChainReader allows chaining multiple reads with deferred error checking.
// This avoids repetitive "if err != nil" checks.
type ChainReader struct {
	*Reader
	err error
}

// NewChainReader creates a new ChainReader.
func NewChainReader(r *Reader) *ChainReader {
	return &ChainReader{Reader: r}
}

// ReadChained reads a big-endian value with deferred error checking.
// If a previous read failed, returns zero value without attempting read.
func ReadChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	return readChained[T](cr, what, BigEndian)
}

// ReadChainedLE is ReadChained for little-endian fields.
func ReadChainedLE[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string) T {
	return readChained[T](cr, what, LittleEndian)
}

func readChained[T uint8 | uint16 | uint32 | uint64](cr *ChainReader, what string, endian Endianness) T {
	if cr.err != nil {
		var zero T
		return zero
	}

	val, err := ReadEndian[T](cr.Reader, what, endian)
	if err != nil {
		cr.err = err
		var zero T
		return zero
	}

	return val
}

// String reads a string, accumulating any error.
func (cr *ChainReader) String(length int, what string) string {
	if cr.err != nil {
		return ""
	}

	val, err := cr.Reader.ReadString(length, what)
	if err != nil {
		cr.err = err
		return ""
	}

	return val
}

// Skip skips n bytes, accumulating any error.
func (cr *ChainReader) Skip(n int64, what string) {
	if cr.err != nil {
		return
	}
	cr.err = cr.Reader.Skip(n, what)
}

// Error returns the accumulated error, if any.
func (cr *ChainReader) Error() error {
	return cr.err
}
