// Package mpeg decodes MPEG audio frame headers and implements the track
// variant for MPEG audio elementary streams (MP1, MP2, MP3).
package mpeg

import (
	"bytes"
	"io"
	"strings"
	"time"

	"github.com/bogem/id3v2/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

const (
	id3v2HeaderSize = 10
	id3v1Size       = 128

	// maxSyncScan bounds the search for the first frame after the tag.
	maxSyncScan = 64 * 1024
)

// Decoder is the MPEG audio track variant.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	start := r.Offset()
	size, err := r.Size()
	if err != nil {
		return err
	}

	head, err := r.ReadBytes(id3v2HeaderSize, "MPEG stream start")
	if err != nil {
		return err
	}

	frameStart := start
	if string(head[:3]) == "ID3" {
		tagLen := id3v2TagLength(head)
		if err := readID3v2(r, start, tagLen, m); err != nil {
			if types.KindOf(err) == types.KindTransport {
				return err
			}
			m.AddWarning("metadata", start, "ID3v2 parsing failed: %v", err)
		}
		frameStart = start + tagLen
	}

	frameOffset, err := findFrame(r, frameStart, size)
	if err != nil {
		return err
	}
	if err := r.SeekTo(frameOffset, "MPEG frame"); err != nil {
		return err
	}

	var f Frame
	if err := f.ParseHeader(r); err != nil {
		return err
	}

	audioEnd := size
	title, ok, err := readID3v1Title(r, size)
	if err != nil {
		return err
	}
	if ok {
		audioEnd -= id3v1Size
		if m.Name == "" {
			m.Name = title
		}
	}

	m.MediaType = types.MediaTypeAudio
	m.Format = f.Format()
	m.Version = f.Version()
	m.SampleRate = f.SampleRate()
	m.ChannelCount = f.ChannelCount()
	m.Bitrate = float64(f.Bitrate())
	if audioEnd > frameOffset {
		m.Size = uint64(audioEnd - frameOffset)
	}

	switch {
	case f.IsXingFramefieldPresent() && f.XingFrameCount() > 0:
		m.SampleCount = uint64(f.XingFrameCount()) * uint64(f.SampleCount())
		m.Duration = f.XingDuration()
		if f.IsXingBytesfieldPresent() && f.XingByteCount() > 0 {
			m.Size = uint64(f.XingByteCount())
		}
		if avg := types.BitrateKbps(m.Size, m.Duration); avg > 0 {
			m.MaxBitrate = m.Bitrate
			m.Bitrate = avg
		}
		if f.IsXingQualityIndicatorFieldPresent() {
			m.Quality = f.XingQualityIndicator()
		}
	case f.Bitrate() > 0:
		m.Duration = cbrDuration(m.Size, f.Bitrate())
		if frameSize := uint64(f.Size()); frameSize > 0 {
			m.SampleCount = m.Size / frameSize * uint64(f.SampleCount())
		}
	default:
		m.AddWarning("technical", frameOffset, "free format bitrate, duration unknown")
	}

	return nil
}

// id3v2TagLength returns the full length of an ID3v2 tag from its header,
// including the header and an optional footer.
func id3v2TagLength(header []byte) int64 {
	size := int64(decodeSynchsafe(header[6:10])) + id3v2HeaderSize
	if header[5]&0x10 != 0 {
		size += id3v2HeaderSize
	}
	return size
}

// decodeSynchsafe decodes a 28-bit synchsafe integer.
func decodeSynchsafe(b []byte) uint32 {
	return uint32(b[0]&0x7F)<<21 | uint32(b[1]&0x7F)<<14 | uint32(b[2]&0x7F)<<7 | uint32(b[3]&0x7F)
}

// readID3v2 reads the title and language of the tag at start. Failures are
// returned for the caller to record as warnings.
func readID3v2(r *binary.Reader, start, length int64, m *types.Metadata) error {
	if err := r.SeekTo(start, "ID3v2 tag"); err != nil {
		return err
	}
	tap := binary.NewTap(r)
	tag, err := id3v2.ParseReader(io.LimitReader(tap, length), id3v2.Options{
		Parse:       true,
		ParseFrames: []string{"Title", "Language"},
	})
	if err != nil {
		if ioErr := tap.Err("ID3v2 tag"); ioErr != nil {
			return ioErr
		}
		return types.NewInvalidDataError(r, start, "malformed ID3v2 tag: %v", err)
	}

	m.Name = strings.TrimSpace(tag.Title())
	if lang := tag.GetTextFrame(tag.CommonID("Language")).Text; lang != "" {
		m.Language = strings.TrimSpace(lang)
	}
	return nil
}

// findFrame returns the offset of the first plausible frame header at or
// after from. Junk between a tag and the first frame is skipped.
func findFrame(r *binary.Reader, from, size int64) (int64, error) {
	if err := r.SeekTo(from, "MPEG frame sync"); err != nil {
		return 0, err
	}
	window := min(size-from, maxSyncScan)
	if window < 4 {
		return 0, types.NewInvalidDataError(r, from, "stream too short for a frame header")
	}
	buf, err := r.ReadBytes(int(window), "MPEG frame sync")
	if err != nil {
		return 0, err
	}

	for i := 0; i+4 <= len(buf); i++ {
		if buf[i] != 0xFF || buf[i+1]&0xE0 != 0xE0 {
			continue
		}
		f := Frame{header: binary.Decode[uint32](buf[i:], binary.BigEndian)}
		if f.SampleRate() != 0 && f.Layer() != 0 {
			return from + int64(i), nil
		}
	}
	return 0, types.NewInvalidDataError(r, from, "no MPEG frame sync within %d bytes", window)
}

// readID3v1Title returns the title of a trailing ID3v1 tag, decoding it as
// ISO-8859-1. ok reports whether a tag is present.
func readID3v1Title(r *binary.Reader, size int64) (title string, ok bool, err error) {
	if size < id3v1Size {
		return "", false, nil
	}
	if err := r.SeekTo(size-id3v1Size, "ID3v1 tag"); err != nil {
		return "", false, err
	}
	buf, err := r.ReadBytes(33, "ID3v1 title")
	if err != nil {
		return "", false, err
	}
	if string(buf[:3]) != "TAG" {
		return "", false, nil
	}

	raw := bytes.TrimRight(buf[3:], "\x00 ")
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", true, nil
	}
	return string(decoded), true, nil
}

// cbrDuration estimates the duration of size bytes at a constant bitrate.
func cbrDuration(size uint64, kbps uint32) time.Duration {
	return time.Duration(size*8000/uint64(kbps)) * time.Microsecond
}

func init() {
	registry.Register(types.ContainerMPEGAudio, func() types.Decoder { return &Decoder{} })
}
