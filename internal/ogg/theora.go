package ogg

import (
	"fmt"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

// parseTheoraIdentification parses the Theora identification header
// (packet type 0x80). Theora header fields are big-endian. It returns the
// granule shift needed to turn granule positions into frame counts.
func parseTheoraIdentification(data []byte, m *types.Metadata) (uint, error) {
	if len(data) < 42 {
		return 0, fmt.Errorf("theora identification header too short: %d bytes", len(data))
	}
	if data[7] != 3 {
		return 0, fmt.Errorf("unsupported Theora version: %d.%d.%d", data[7], data[8], data[9])
	}

	width := uint32(data[14])<<16 | uint32(data[15])<<8 | uint32(data[16])
	height := uint32(data[17])<<16 | uint32(data[18])<<8 | uint32(data[19])
	frameNum := binary.Decode[uint32](data[22:26], binary.BigEndian)
	frameDen := binary.Decode[uint32](data[26:30], binary.BigEndian)
	colorSpace := data[36]
	nominalBitrate := uint32(data[37])<<16 | uint32(data[38])<<8 | uint32(data[39])
	granuleShift := uint(data[40]&0x03)<<3 | uint(data[41]>>5)

	m.Format = types.Format{Codec: types.CodecTheora}
	m.MediaType = types.MediaTypeVideo
	m.Width = width
	m.Height = height
	m.ColorSpace = uint32(colorSpace)
	if frameDen != 0 {
		m.FrameRate = float64(frameNum) / float64(frameDen)
	}
	if nominalBitrate > 0 {
		m.Bitrate = float64(nominalBitrate) / 1000
	}
	return granuleShift, nil
}

// theoraFrames converts a granule position to a frame count: the upper
// bits count frames up to the last keyframe, the lower bits count frames
// since then.
func theoraFrames(granule int64, shift uint) int64 {
	return granule>>shift + granule&(1<<shift-1)
}
