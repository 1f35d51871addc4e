// Package ogg implements the track variant for Ogg bitstreams carrying
// Vorbis, Opus or Theora.
package ogg

import (
	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

const (
	pageHeaderSize = 27

	// lastPageSearch is how far from the end to look for the final page
	// (typical max page size).
	lastPageSearch = 65536
)

// Page header type flags.
const (
	flagContinued = 0x01
	flagBOS       = 0x02
	flagEOS       = 0x04
)

// Page represents an Ogg page.
//
// An Ogg page is the fundamental unit of the Ogg container format.
// Each page contains a header and payload data.
type Page struct {
	Offset          int64
	HeaderType      byte   // Bit flags: 0x01=continued, 0x02=BOS, 0x04=EOS
	GranulePosition int64  // Position in samples
	SerialNumber    uint32 // Logical bitstream identifier
	SequenceNumber  uint32 // Page sequence number
	Segments        []byte // Lacing values
	Data            []byte // Page payload (one or more packets)
}

// readPage reads the Ogg page at the current position of r.
func readPage(r *binary.Reader) (*Page, error) {
	offset := r.Offset()

	magic, err := r.ReadString(4, "Ogg magic")
	if err != nil {
		return nil, err
	}
	if magic != "OggS" {
		return nil, types.NewInvalidDataError(r, offset, "invalid Ogg page magic %q", magic)
	}

	cr := binary.NewChainReader(r)
	version := binary.ReadChained[uint8](cr, "version")
	headerType := binary.ReadChained[uint8](cr, "header type")
	granule := binary.ReadChainedLE[uint64](cr, "granule position")
	serial := binary.ReadChainedLE[uint32](cr, "serial number")
	sequence := binary.ReadChainedLE[uint32](cr, "sequence number")
	cr.Skip(4, "checksum")
	segmentCount := binary.ReadChained[uint8](cr, "segment count")
	if err := cr.Error(); err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, types.NewInvalidDataError(r, offset+4, "unsupported Ogg version: %d", version)
	}

	// Each lacing value is the size of a segment, 0-255.
	segments, err := r.ReadBytes(int(segmentCount), "segment table")
	if err != nil {
		return nil, err
	}
	dataSize := 0
	for _, seg := range segments {
		dataSize += int(seg)
	}
	data, err := r.ReadBytes(dataSize, "page data")
	if err != nil {
		return nil, err
	}

	return &Page{
		Offset:          offset,
		HeaderType:      headerType,
		GranulePosition: int64(granule),
		SerialNumber:    serial,
		SequenceNumber:  sequence,
		Segments:        segments,
		Data:            data,
	}, nil
}

// packetAssembler rebuilds packets from the pages of one logical stream.
//
// A packet ends with a segment shorter than 255 bytes; a packet whose last
// segment is 255 bytes long continues on the next page.
type packetAssembler struct {
	packets [][]byte
	partial []byte
}

// add appends the packets completed by page.
func (a *packetAssembler) add(page *Page) {
	if page.HeaderType&flagContinued == 0 {
		a.partial = nil
	}
	pos := 0
	for _, seg := range page.Segments {
		a.partial = append(a.partial, page.Data[pos:pos+int(seg)]...)
		pos += int(seg)
		if seg < 255 {
			a.packets = append(a.packets, a.partial)
			a.partial = nil
		}
	}
}

// findLastGranulePosition searches backwards from the end of the stream
// for the last page of the logical stream serial and returns its granule
// position.
func findLastGranulePosition(r *binary.Reader, size int64, serial uint32) (int64, error) {
	searchStart := max(size-lastPageSearch, 0)
	if err := r.SeekTo(searchStart, "last Ogg page"); err != nil {
		return 0, err
	}
	buf, err := r.ReadBytes(int(size-searchStart), "last Ogg page")
	if err != nil {
		return 0, err
	}

	for i := len(buf) - pageHeaderSize; i >= 0; i-- {
		if string(buf[i:i+4]) != "OggS" {
			continue
		}
		if binary.Decode[uint32](buf[i+14:], binary.LittleEndian) != serial {
			continue
		}
		granule := int64(binary.Decode[uint64](buf[i+6:], binary.LittleEndian))
		if granule < 0 {
			// -1 means no packet finishes on this page
			continue
		}
		return granule, nil
	}
	return 0, types.NewInvalidDataError(r, searchStart, "could not find last Ogg page")
}
