package ogg

import (
	"fmt"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

// opusSampleRate is the rate of Opus granule positions, regardless of the
// input sample rate.
const opusSampleRate = 48000

// parseOpusHead parses the OpusHead identification header.
//
// The OpusHead header contains audio properties:
//   - Version (major version must be 0)
//   - Number of channels
//   - Pre-skip (samples to skip at start)
//   - Input sample rate (original recording rate, informational)
//   - Output gain (playback volume adjustment)
//   - Channel mapping family
//
// It returns the pre-skip.
func parseOpusHead(data []byte, m *types.Metadata) (uint16, error) {
	if len(data) < 19 {
		return 0, fmt.Errorf("OpusHead packet too short: %d bytes (need at least 19)", len(data))
	}

	// Only the major version (upper nibble) is incompatible.
	version := data[8]
	if version>>4 != 0 {
		return 0, fmt.Errorf("unsupported Opus version: %d", version)
	}

	channels := data[9]
	preSkip := binary.Decode[uint16](data[10:12], binary.LittleEndian)
	inputSampleRate := binary.Decode[uint32](data[12:16], binary.LittleEndian)
	outputGain := int16(binary.Decode[uint16](data[16:18], binary.LittleEndian))

	if channels == 0 {
		return 0, fmt.Errorf("OpusHead channel count is zero")
	}

	m.Format = types.Format{Codec: types.CodecOpus}
	m.MediaType = types.MediaTypeAudio
	m.SampleRate = opusSampleRate
	m.ChannelCount = uint16(channels)
	m.ExtensionSampleRate = inputSampleRate

	if outputGain != 0 {
		m.AddWarning("technical", 0, "output gain: %.2f dB", float64(outputGain)/256.0)
	}
	return preSkip, nil
}

// parseOpusTags parses the OpusTags comment header, a Vorbis comment block
// behind an "OpusTags" marker.
func parseOpusTags(data []byte, m *types.Metadata) error {
	if len(data) < 8 || string(data[0:8]) != "OpusTags" {
		return fmt.Errorf("not an OpusTags header")
	}
	return applyComments(data[8:], m)
}
