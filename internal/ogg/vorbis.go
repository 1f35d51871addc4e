package ogg

import (
	"bytes"
	"fmt"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
	"github.com/simonhull/mediatrack/internal/vorbis"
)

// parseVorbisIdentification parses the Vorbis identification header (packet type 0x01).
//
// The identification header contains audio properties:
//   - Sample rate
//   - Number of channels
//   - Bitrate (nominal, maximum, minimum)
func parseVorbisIdentification(data []byte, m *types.Metadata) error {
	if len(data) < 30 {
		return fmt.Errorf("identification header too short: %d bytes", len(data))
	}

	vorbisVersion := binary.Decode[uint32](data[7:11], binary.LittleEndian)
	if vorbisVersion != 0 {
		return fmt.Errorf("unsupported Vorbis version: %d", vorbisVersion)
	}

	// All little-endian; bitrates are optional and may be 0.
	channels := data[11]
	sampleRate := binary.Decode[uint32](data[12:16], binary.LittleEndian)
	bitrateMaximum := int32(binary.Decode[uint32](data[16:20], binary.LittleEndian))
	bitrateNominal := int32(binary.Decode[uint32](data[20:24], binary.LittleEndian))

	if channels == 0 || sampleRate == 0 {
		return fmt.Errorf("invalid channel count %d or sample rate %d", channels, sampleRate)
	}

	m.Format = types.Format{Codec: types.CodecVorbis}
	m.MediaType = types.MediaTypeAudio
	m.SampleRate = sampleRate
	m.ChannelCount = uint16(channels)
	if bitrateNominal > 0 {
		m.Bitrate = float64(bitrateNominal) / 1000
	}
	if bitrateMaximum > 0 {
		m.MaxBitrate = float64(bitrateMaximum) / 1000
	}
	return nil
}

// parseVorbisComment parses the Vorbis comment header (packet type 0x03).
//
// The comment header uses the same layout as FLAC Vorbis comments after a
// 7-byte packet type and magic marker.
func parseVorbisComment(data []byte, m *types.Metadata) error {
	if len(data) < 7 || data[0] != 0x03 || string(data[1:7]) != "vorbis" {
		return fmt.Errorf("not a Vorbis comment header")
	}
	return applyComments(data[7:], m)
}

// applyComments decodes a comment block held in memory.
func applyComments(block []byte, m *types.Metadata) error {
	r := binary.NewReader(bytes.NewReader(block), "")
	comments, err := vorbis.ReadComments(r, m)
	if err != nil {
		return err
	}
	comments.Apply(m)
	return nil
}
