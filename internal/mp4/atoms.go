// Package mp4 implements the track variant for one trak atom of an ISO base
// media file (MP4, M4A, M4B, MOV).
package mp4

import (
	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

// Atom represents an MP4 atom (box)
type Atom struct {
	Size     uint64 // Total size including header
	Type     string // 4-character type code
	Offset   int64  // Position in stream
	Extended bool   // Whether this uses 64-bit extended size
}

// DataSize returns the size of the atom's data (excluding header)
func (a *Atom) DataSize() uint64 {
	headerSize := uint64(8)
	if a.Extended {
		headerSize = 16
	}
	if a.Size < headerSize {
		return 0
	}
	return a.Size - headerSize
}

// DataOffset returns the stream offset where the atom's data starts
func (a *Atom) DataOffset() int64 {
	headerSize := int64(8)
	if a.Extended {
		headerSize = 16
	}
	return a.Offset + headerSize
}

// End returns the stream offset just past the atom.
func (a *Atom) End() int64 {
	return a.Offset + int64(a.Size)
}

// readAtomHeader reads an atom header at the given offset.
func readAtomHeader(r *binary.Reader, offset int64) (*Atom, error) {
	if err := r.SeekTo(offset, "atom header"); err != nil {
		return nil, err
	}

	size32, err := r.ReadUint32BE("atom size")
	if err != nil {
		return nil, err
	}
	atomType, err := r.ReadString(4, "atom type")
	if err != nil {
		return nil, err
	}

	atom := &Atom{
		Type:   atomType,
		Offset: offset,
	}

	// size == 1 means a 64-bit size follows
	if size32 == 1 {
		size64, err := r.ReadUint64BE("extended atom size")
		if err != nil {
			return nil, err
		}
		atom.Size = size64
		atom.Extended = true
	} else {
		atom.Size = uint64(size32)
	}

	minSize := uint64(8)
	if atom.Extended {
		minSize = 16
	}
	if atom.Size < minSize {
		return nil, types.NewInvalidDataError(r, offset, "invalid atom size %d (minimum is %d)", atom.Size, minSize)
	}

	return atom, nil
}

// children reads the headers of the atoms directly inside [start, end).
// Atoms that overrun end are reported as invalid data.
func children(r *binary.Reader, start, end int64) ([]*Atom, error) {
	var atoms []*Atom
	for offset := start; offset+8 <= end; {
		atom, err := readAtomHeader(r, offset)
		if err != nil {
			return nil, err
		}
		if atom.End() > end {
			return nil, types.NewInvalidDataError(r, offset, "atom '%s' overruns its parent", atom.Type)
		}
		atoms = append(atoms, atom)
		offset = atom.End()
	}
	return atoms, nil
}

// find returns the first atom of the given type, or nil.
func find(atoms []*Atom, atomType string) *Atom {
	for _, a := range atoms {
		if a.Type == atomType {
			return a
		}
	}
	return nil
}

// findPath descends from parent through the given atom types. It returns
// nil without error if any step is missing.
func findPath(r *binary.Reader, parent *Atom, path ...string) (*Atom, error) {
	current := parent
	for _, atomType := range path {
		atoms, err := children(r, current.DataOffset(), current.End())
		if err != nil {
			return nil, err
		}
		if current = find(atoms, atomType); current == nil {
			return nil, nil
		}
	}
	return current, nil
}
