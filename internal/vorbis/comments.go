// Package vorbis reads Vorbis comment blocks.
//
// Vorbis comments are used by both FLAC and Ogg (Vorbis and Opus) streams.
// The format is identical: a vendor string followed by UTF-8 strings in
// "KEY=VALUE" format, all lengths little-endian.
package vorbis

import (
	"fmt"
	"strings"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

// maxCommentLength guards against corrupt length fields.
const maxCommentLength = 1 << 20

// Comments is a decoded comment block.
type Comments struct {
	Vendor string
	Fields map[string][]string
}

// Get returns the first value of key. Keys are case-insensitive.
func (c *Comments) Get(key string) string {
	if v := c.Fields[strings.ToUpper(key)]; len(v) > 0 {
		return v[0]
	}
	return ""
}

// ParseComment splits a single "KEY=VALUE" comment. The key is returned
// upper-cased.
func ParseComment(comment string) (key, value string, err error) {
	key, value, ok := strings.Cut(comment, "=")
	if !ok {
		return "", "", fmt.Errorf("missing '=' in comment: %s", comment)
	}
	return strings.ToUpper(key), value, nil
}

// ReadComments reads a comment block from the current position of r.
// Malformed comments are recorded on m as warnings and skipped.
func ReadComments(r *binary.Reader, m *types.Metadata) (*Comments, error) {
	cr := binary.NewChainReader(r)

	vendorLength := binary.ReadChainedLE[uint32](cr, "vendor string length")
	if cr.Error() == nil && vendorLength > maxCommentLength {
		return nil, types.NewInvalidDataError(r, r.Offset()-4, "vendor string length %d too large", vendorLength)
	}
	vendor := cr.String(int(vendorLength), "vendor string")
	count := binary.ReadChainedLE[uint32](cr, "number of comments")
	if err := cr.Error(); err != nil {
		return nil, err
	}

	c := &Comments{Vendor: vendor, Fields: make(map[string][]string)}
	for i := uint32(0); i < count; i++ {
		length, err := binary.ReadLE[uint32](r, "comment length")
		if err != nil {
			return nil, err
		}
		if length > maxCommentLength {
			return nil, types.NewInvalidDataError(r, r.Offset()-4, "comment %d length %d too large", i, length)
		}
		comment, err := r.ReadString(int(length), "comment")
		if err != nil {
			return nil, err
		}

		key, value, err := ParseComment(comment)
		if err != nil {
			m.AddWarning("metadata", r.Offset()-int64(length), "invalid Vorbis comment: %v", err)
			continue
		}
		c.Fields[key] = append(c.Fields[key], value)
	}
	return c, nil
}

// Apply copies the fields a track description uses onto m.
func (c *Comments) Apply(m *types.Metadata) {
	if title := c.Get("TITLE"); title != "" {
		m.Name = title
	}
	if lang := c.Get("LANGUAGE"); lang != "" {
		m.Language = lang
	}
}
