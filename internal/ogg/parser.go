package ogg

import (
	"time"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

// maxHeaderPages bounds the pages read while looking for the comment
// header.
const maxHeaderPages = 16

type codec int

const (
	codecUnknown codec = iota
	codecVorbis
	codecOpus
	codecTheora
)

// Decoder is the Ogg track variant. It describes the logical stream that
// starts on the first page.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	start := r.Offset()

	first, err := readPage(r)
	if err != nil {
		return err
	}
	if first.HeaderType&flagBOS == 0 {
		return types.NewInvalidDataError(r, start, "first Ogg page does not begin a stream")
	}

	var packets packetAssembler
	packets.add(first)
	if len(packets.packets) == 0 {
		return types.NewInvalidDataError(r, start, "identification header does not fit the first page")
	}
	serial := first.SerialNumber
	m.ID = uint64(serial)

	// Opus pre-skip or Theora granule shift
	var preSkip uint16
	var granuleShift uint

	id := packets.packets[0]
	kind := detectCodec(id)
	switch kind {
	case codecVorbis:
		err = parseVorbisIdentification(id, m)
	case codecOpus:
		preSkip, err = parseOpusHead(id, m)
	case codecTheora:
		granuleShift, err = parseTheoraIdentification(id, m)
	default:
		return types.NewInvalidDataError(r, start, "unknown or unsupported Ogg codec")
	}
	if err != nil {
		return types.NewInvalidDataError(r, start, "%v", err)
	}

	size, err := r.Size()
	if err != nil {
		return err
	}

	for i := 0; len(packets.packets) < 2 && i < maxHeaderPages; i++ {
		offset := r.Offset()
		if offset >= size {
			break
		}
		page, err := readPage(r)
		if err != nil {
			if types.KindOf(err) == types.KindTransport {
				return err
			}
			m.AddWarning("metadata", offset, "failed to read Ogg page: %v", err)
			break
		}
		if page.SerialNumber == serial {
			packets.add(page)
		}
	}
	if len(packets.packets) >= 2 {
		if err := parseComment(kind, packets.packets[1], m); err != nil {
			m.AddWarning("metadata", 0, "failed to parse comment header: %v", err)
		}
	} else {
		m.AddWarning("metadata", r.Offset(), "comment header not found")
	}

	m.Size = uint64(size - start)

	granule, err := findLastGranulePosition(r, size, serial)
	if err != nil {
		if types.KindOf(err) == types.KindTransport {
			return err
		}
		m.AddWarning("technical", 0, "failed to calculate duration: %v", err)
		return nil
	}

	switch kind {
	case codecVorbis:
		m.SampleCount = uint64(granule)
		m.Duration = types.DurationFromSamples(m.SampleCount, m.SampleRate)
	case codecOpus:
		if granule > int64(preSkip) {
			m.SampleCount = uint64(granule - int64(preSkip))
		}
		m.Duration = types.DurationFromSamples(m.SampleCount, opusSampleRate)
	case codecTheora:
		frames := theoraFrames(granule, granuleShift)
		if m.FrameRate > 0 {
			m.SampleCount = uint64(frames)
			m.Duration = time.Duration(float64(frames) / m.FrameRate * float64(time.Second))
		}
	}

	// Opus carries no nominal bitrate in its header.
	if m.Bitrate == 0 {
		m.Bitrate = types.BitrateKbps(m.Size, m.Duration)
	}
	return nil
}

// detectCodec determines the codec from the magic marker of the first packet.
func detectCodec(firstPacket []byte) codec {
	switch {
	case len(firstPacket) >= 8 && string(firstPacket[0:8]) == "OpusHead":
		return codecOpus
	case len(firstPacket) >= 7 && firstPacket[0] == 0x01 && string(firstPacket[1:7]) == "vorbis":
		return codecVorbis
	case len(firstPacket) >= 7 && firstPacket[0] == 0x80 && string(firstPacket[1:7]) == "theora":
		return codecTheora
	default:
		return codecUnknown
	}
}

func parseComment(kind codec, data []byte, m *types.Metadata) error {
	switch kind {
	case codecVorbis:
		return parseVorbisComment(data, m)
	case codecOpus:
		return parseOpusTags(data, m)
	case codecTheora:
		if len(data) >= 7 && data[0] == 0x81 && string(data[1:7]) == "theora" {
			return applyComments(data[7:], m)
		}
	}
	return nil
}

func init() {
	registry.Register(types.ContainerOgg, func() types.Decoder { return &Decoder{} })
}
