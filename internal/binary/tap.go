package binary

import "io"

// Tap hands a Reader to third-party decoders and remembers the first
// failure of the underlying stream, so that their opaque errors can be told
// apart from stream errors afterwards.
type Tap struct {
	r   *Reader
	err error
	at  int64
}

// NewTap creates a Tap over r at its current position.
func NewTap(r *Reader) *Tap {
	return &Tap{r: r}
}

// Read implements io.Reader.
func (t *Tap) Read(p []byte) (int, error) {
	at := t.r.Offset()
	n, err := t.r.Read(p)
	if err != nil && t.err == nil {
		t.err, t.at = err, at+int64(n)
	}
	return n, err
}

// Seek implements io.Seeker.
func (t *Tap) Seek(offset int64, whence int) (int64, error) {
	pos, err := t.r.Seek(offset, whence)
	if err != nil && t.err == nil {
		t.err, t.at = err, t.r.Offset()
	}
	return pos, err
}

// Err returns the first stream failure as an *IOError, or nil if the
// stream never failed. A read that hit the end of the stream counts as a
// failure: decoders only read past the end of truncated data.
func (t *Tap) Err(what string) error {
	if t.err == nil {
		return nil
	}
	err := t.err
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return &IOError{Path: t.r.path, What: what, Offset: t.at, Err: err}
}
