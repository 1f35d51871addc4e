// Package matroska implements the track variant for one TrackEntry element
// of a Matroska or WebM file.
package matroska

import (
	"errors"
	"io"
	"math"
	"strings"
	"time"

	"github.com/ebml-go/ebml"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

// idTrackEntry is the EBML id of a TrackEntry element.
const idTrackEntry = 0xAE

// Track types
const (
	trackTypeVideo    = 0x01
	trackTypeAudio    = 0x02
	trackTypeSubtitle = 0x11
)

// contentEncodingEncryption is the ContentEncodingType of an encrypted track.
const contentEncodingEncryption = 1

// defaultLanguage applies when a TrackEntry has no Language element.
const defaultLanguage = "eng"

// TrackEntry describes a track with all Elements.
//
// See: https://www.matroska.org/technical/elements.html#TrackEntry
type TrackEntry struct {
	TrackNumber      uint64           `ebml:"D7"`
	TrackUID         uint64           `ebml:"73C5"`
	TrackType        uint64           `ebml:"83"`
	FlagEnabled      uint64           `ebml:"B9"`
	FlagDefault      uint64           `ebml:"88"`
	FlagForced       uint64           `ebml:"55AA"`
	FlagLacing       uint64           `ebml:"9C"`
	DefaultDuration  uint64           `ebml:"23E383"`
	Name             string           `ebml:"536E"`
	Language         string           `ebml:"22B59C"`
	CodecID          string           `ebml:"86"`
	CodecName        string           `ebml:"258688"`
	Video            Video            `ebml:"E0"`
	Audio            Audio            `ebml:"E1"`
	ContentEncodings ContentEncodings `ebml:"6D80"`
}

// Video stores video settings.
type Video struct {
	FlagInterlaced uint64 `ebml:"9A"`
	PixelWidth     uint64 `ebml:"B0"`
	PixelHeight    uint64 `ebml:"BA"`
	ColourSpace    []byte `ebml:"2EB524"`
}

// Audio stores audio settings.
type Audio struct {
	SamplingFrequency       float64 `ebml:"B5"`
	OutputSamplingFrequency float64 `ebml:"78B5"`
	Channels                uint64  `ebml:"9F"`
	BitDepth                uint64  `ebml:"6264"`
}

// ContentEncodings lists the encodings applied to the track's blocks.
type ContentEncodings struct {
	ContentEncoding []ContentEncoding `ebml:"6240"`
}

// ContentEncoding is one compression or encryption step.
type ContentEncoding struct {
	ContentEncodingType uint64 `ebml:"5033"`
}

// newTrackEntry returns a TrackEntry holding the element defaults, which
// apply to elements absent from the stream.
func newTrackEntry() TrackEntry {
	return TrackEntry{
		FlagEnabled: 1,
		FlagDefault: 1,
		FlagLacing:  1,
		Language:    defaultLanguage,
		Audio:       Audio{SamplingFrequency: 8000, Channels: 1},
	}
}

// Decoder is the Matroska track variant. The start offset must point at a
// TrackEntry element.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	start := r.Offset()
	size, err := r.Size()
	if err != nil {
		return err
	}
	tap := binary.NewTap(r)

	root, err := ebml.RootElement(tap)
	if err != nil {
		return classify(r, tap, start, size, err)
	}
	el, err := root.Next()
	if err != nil {
		return classify(r, tap, start, size, err)
	}
	if el.Id != idTrackEntry {
		return types.NewInvalidDataError(r, start, "expected TrackEntry (0xAE), found element %#x", el.Id)
	}

	te := newTrackEntry()
	if err := el.Unmarshal(&te); err != nil {
		return classify(r, tap, start, size, err)
	}
	if te.TrackNumber == 0 {
		return types.NewInvalidDataError(r, start, "TrackEntry has no track number")
	}
	if te.TrackNumber > math.MaxUint32 {
		return types.NewInvalidDataError(r, start, "track number %d out of range", te.TrackNumber)
	}

	apply(&te, m)
	return nil
}

// classify turns an ebml error into a transport error if the stream failed
// or ended underneath it, or into invalid data otherwise.
func classify(r *binary.Reader, tap *binary.Tap, start, size int64, err error) error {
	if ioErr := tap.Err("TrackEntry"); ioErr != nil {
		return ioErr
	}
	if (errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)) && r.Offset() >= size {
		return &types.IOError{Path: r.Path(), What: "TrackEntry", Offset: r.Offset(), Err: io.ErrUnexpectedEOF}
	}
	return types.NewInvalidDataError(r, start, "malformed TrackEntry: %v", err)
}

// apply copies a decoded TrackEntry into m.
func apply(te *TrackEntry, m *types.Metadata) {
	m.ID = te.TrackUID
	if m.ID == 0 {
		m.ID = te.TrackNumber
	}
	m.TrackNumber = uint32(te.TrackNumber)
	m.Name = te.Name
	m.Language = te.Language

	m.Enabled = te.FlagEnabled != 0
	m.Default = te.FlagDefault != 0
	m.Forced = te.FlagForced != 0
	m.Lacing = te.FlagLacing != 0
	for _, enc := range te.ContentEncodings.ContentEncoding {
		if enc.ContentEncodingType == contentEncodingEncryption {
			m.Encrypted = true
		}
	}

	m.RawFormatID = te.CodecID
	m.RawFormatName = te.CodecName
	m.Format = codecFormat(te.CodecID)

	switch te.TrackType {
	case trackTypeVideo:
		m.MediaType = types.MediaTypeVideo
		m.Width = uint32(te.Video.PixelWidth)
		m.Height = uint32(te.Video.PixelHeight)
		// 1 interlaced, 2 progressive
		m.Interlaced = te.Video.FlagInterlaced == 1
		if len(te.Video.ColourSpace) == 4 {
			m.ColorSpace = binary.Decode[uint32](te.Video.ColourSpace, binary.BigEndian)
		}
		if te.DefaultDuration > 0 {
			m.FrameRate = float64(time.Second) / float64(te.DefaultDuration)
		}
	case trackTypeAudio:
		m.MediaType = types.MediaTypeAudio
		m.SampleRate = uint32(te.Audio.SamplingFrequency)
		m.ExtensionSampleRate = uint32(te.Audio.OutputSamplingFrequency)
		m.ChannelCount = uint16(te.Audio.Channels)
		m.BitsPerSample = uint16(te.Audio.BitDepth)
	case trackTypeSubtitle:
		m.MediaType = types.MediaTypeText
	default:
		m.MediaType = types.MediaTypeUnknown
	}
}

// codecPrefixes maps Matroska codec ids to format descriptors. Ids carry
// optional suffixes ("A_AAC/MPEG4/LC"), so matching is by prefix and the
// longest prefix wins.
var codecPrefixes = []struct {
	prefix string
	format types.Format
}{
	{"A_MPEG/L1", types.Format{Codec: types.CodecMPEG1Audio, Sub: types.SubLayer1}},
	{"A_MPEG/L2", types.Format{Codec: types.CodecMPEG1Audio, Sub: types.SubLayer2}},
	{"A_MPEG/L3", types.Format{Codec: types.CodecMPEG1Audio, Sub: types.SubLayer3}},
	{"A_PCM/INT/LIT", types.Format{Codec: types.CodecPCM, Sub: types.SubPCMIntLE}},
	{"A_PCM/INT/BIG", types.Format{Codec: types.CodecPCM, Sub: types.SubPCMIntBE}},
	{"A_PCM/FLOAT/IEEE", types.Format{Codec: types.CodecPCM, Sub: types.SubPCMFloat}},
	{"A_AAC", types.Format{Codec: types.CodecAAC}},
	{"A_AC3", types.Format{Codec: types.CodecAC3}},
	{"A_EAC3", types.Format{Codec: types.CodecEAC3}},
	{"A_DTS", types.Format{Codec: types.CodecDTS}},
	{"A_FLAC", types.Format{Codec: types.CodecFLAC}},
	{"A_ALAC", types.Format{Codec: types.CodecALAC}},
	{"A_OPUS", types.Format{Codec: types.CodecOpus}},
	{"A_VORBIS", types.Format{Codec: types.CodecVorbis}},
	{"V_MPEG4/ISO/AVC", types.Format{Codec: types.CodecAVC}},
	{"V_MPEG4/ISO", types.Format{Codec: types.CodecMPEG4Video}},
	{"V_MPEGH/ISO/HEVC", types.Format{Codec: types.CodecHEVC}},
	{"V_VP8", types.Format{Codec: types.CodecVP8}},
	{"V_VP9", types.Format{Codec: types.CodecVP9}},
	{"V_AV1", types.Format{Codec: types.CodecAV1}},
	{"V_THEORA", types.Format{Codec: types.CodecTheora}},
	{"S_TEXT/UTF8", types.Format{Codec: types.CodecSubRip}},
	{"S_TEXT/ASS", types.Format{Codec: types.CodecASS}},
	{"S_TEXT/SSA", types.Format{Codec: types.CodecASS}},
	{"S_TEXT/WEBVTT", types.Format{Codec: types.CodecWebVTT}},
}

func codecFormat(codecID string) types.Format {
	var best types.Format
	longest := 0
	for _, c := range codecPrefixes {
		if len(c.prefix) > longest && strings.HasPrefix(codecID, c.prefix) {
			best, longest = c.format, len(c.prefix)
		}
	}
	return best
}

func init() {
	registry.Register(types.ContainerMatroska, func() types.Decoder { return &Decoder{} })
}
