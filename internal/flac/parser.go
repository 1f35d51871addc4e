// Package flac implements the track variant for native FLAC streams.
package flac

import (
	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
	"github.com/simonhull/mediatrack/internal/vorbis"
)

// Metadata block types
const (
	blockTypeStreamInfo    = 0
	blockTypePadding       = 1
	blockTypeApplication   = 2
	blockTypeSeekTable     = 3
	blockTypeVorbisComment = 4
	blockTypeCueSheet      = 5
	blockTypePicture       = 6
	blockTypeInvalid       = 127
)

const streamInfoSize = 34

// Decoder is the FLAC track variant.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	start := r.Offset()

	magic, err := r.ReadString(4, "FLAC magic bytes")
	if err != nil {
		return err
	}
	if magic != "fLaC" {
		return types.NewInvalidDataError(r, start, "invalid FLAC magic bytes %q", magic)
	}

	m.MediaType = types.MediaTypeAudio
	m.Format = types.Format{Codec: types.CodecFLAC}

	seenStreamInfo := false
	for {
		offset := r.Offset()
		header, err := r.ReadUint32BE("metadata block header")
		if err != nil {
			return err
		}

		isLast := (header >> 31) == 1
		blockType := uint8((header >> 24) & 0x7F)
		blockLength := int64(header & 0x00FFFFFF)
		blockEnd := r.Offset() + blockLength

		switch blockType {
		case blockTypeStreamInfo:
			if blockLength != streamInfoSize {
				return types.NewInvalidDataError(r, offset, "invalid STREAMINFO size: %d (expected %d)", blockLength, streamInfoSize)
			}
			if err := parseStreamInfo(r, m); err != nil {
				return err
			}
			seenStreamInfo = true

		case blockTypeVorbisComment:
			comments, err := vorbis.ReadComments(r, m)
			if err != nil {
				if types.KindOf(err) == types.KindTransport {
					return err
				}
				m.AddWarning("metadata", offset, "failed to parse Vorbis comments: %v", err)
				break
			}
			comments.Apply(m)

		case blockTypeInvalid:
			return types.NewInvalidDataError(r, offset, "invalid metadata block type %d", blockType)

		default:
			// Padding, application, seek table, cue sheet and picture blocks
			// carry nothing a track description needs.
		}

		if err := r.SeekTo(blockEnd, "metadata block"); err != nil {
			return err
		}
		if !seenStreamInfo {
			return types.NewInvalidDataError(r, offset, "first metadata block is not STREAMINFO")
		}
		if isLast {
			break
		}
	}

	size, err := r.Size()
	if err != nil {
		return err
	}
	if audio := size - r.Offset(); audio > 0 {
		m.Size = uint64(audio)
		// FLAC is variable bitrate; average over the frame data.
		m.Bitrate = types.BitrateKbps(m.Size, m.Duration)
	}
	return nil
}

// parseStreamInfo extracts audio info from the STREAMINFO block.
func parseStreamInfo(r *binary.Reader, m *types.Metadata) error {
	// Bytes 0-1: min block size, 2-3: max block size,
	// 4-6: min frame size, 7-9: max frame size.
	data, err := r.ReadBytes(streamInfoSize, "STREAMINFO block")
	if err != nil {
		return err
	}

	// Bytes 10-17: sample rate (20 bits), channels (3 bits), bits per
	// sample (5 bits), total samples (36 bits).
	packed := binary.Decode[uint64](data[10:18], binary.BigEndian)

	sampleRate := (packed >> 44) & 0xFFFFF
	channels := ((packed >> 41) & 0x7) + 1       // stored as (channels - 1)
	bitsPerSample := ((packed >> 36) & 0x1F) + 1 // stored as (bits - 1)
	totalSamples := packed & 0xFFFFFFFFF

	if sampleRate == 0 {
		return types.NewInvalidDataError(r, r.Offset()-streamInfoSize, "STREAMINFO sample rate is zero")
	}

	m.SampleRate = uint32(sampleRate)
	m.ChannelCount = uint16(channels)
	m.BitsPerSample = uint16(bitsPerSample)
	m.SampleCount = totalSamples
	m.Duration = types.DurationFromSamples(totalSamples, m.SampleRate)
	return nil
}

func init() {
	registry.Register(types.ContainerFLAC, func() types.Decoder { return &Decoder{} })
}
