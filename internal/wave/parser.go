// Package wave implements the track variant for RIFF/WAVE files.
package wave

import (
	"fmt"
	"time"

	"github.com/go-audio/wav"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

// WAVE format tags
const (
	formatPCM        = 0x0001
	formatADPCM      = 0x0002
	formatFloat      = 0x0003
	formatALaw       = 0x0006
	formatMuLaw      = 0x0007
	formatIMAADPCM   = 0x0011
	formatMPEG       = 0x0050
	formatMPEGLayer3 = 0x0055
	formatExtensible = 0xFFFE
)

var formatTags = map[uint16]types.Format{
	formatPCM:        {Codec: types.CodecPCM, Sub: types.SubPCMIntLE},
	formatFloat:      {Codec: types.CodecPCM, Sub: types.SubPCMFloat},
	formatALaw:       {Codec: types.CodecALaw},
	formatMuLaw:      {Codec: types.CodecMuLaw},
	formatMPEG:       {Codec: types.CodecMPEG1Audio, Sub: types.SubLayer2},
	formatMPEGLayer3: {Codec: types.CodecMPEG1Audio, Sub: types.SubLayer3},
	formatExtensible: {Codec: types.CodecPCM},
}

var rawFormatNames = map[uint16]string{
	formatADPCM:    "Microsoft ADPCM",
	formatIMAADPCM: "IMA ADPCM",
}

// Decoder is the WAVE track variant.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	start := r.Offset()

	magic, err := r.ReadBytes(12, "RIFF header")
	if err != nil {
		return err
	}
	if string(magic[0:4]) != "RIFF" || string(magic[8:12]) != "WAVE" {
		return types.NewInvalidDataError(r, start, "not a RIFF/WAVE file (%q/%q)", magic[0:4], magic[8:12])
	}
	if err := r.SeekTo(start, "RIFF header"); err != nil {
		return err
	}

	tap := binary.NewTap(r)
	dec := wav.NewDecoder(tap)
	dec.ReadInfo()
	if err := dec.Err(); err != nil {
		if ioErr := tap.Err("WAVE fmt chunk"); ioErr != nil {
			return ioErr
		}
		return types.NewInvalidDataError(r, start, "unreadable fmt chunk: %v", err)
	}
	if dec.NumChans == 0 {
		return types.NewInvalidDataError(r, start, "missing fmt chunk")
	}

	m.MediaType = types.MediaTypeAudio
	m.ChannelCount = dec.NumChans
	m.BitsPerSample = dec.BitDepth
	m.SampleRate = dec.SampleRate
	m.BytesPerSecond = dec.AvgBytesPerSec
	m.Bitrate = float64(dec.AvgBytesPerSec) * 8 / 1000
	m.RawFormatID = formatTagID(dec.WavAudioFormat)
	if f, ok := formatTags[dec.WavAudioFormat]; ok {
		m.Format = f
	} else {
		m.RawFormatName = rawFormatNames[dec.WavAudioFormat]
	}

	// A missing data chunk means reading to the end of the stream, so this
	// is normally reported as truncated.
	if err := dec.FwdToPCM(); err != nil || dec.PCMChunk == nil {
		if ioErr := tap.Err("WAVE data chunk"); ioErr != nil {
			return ioErr
		}
		return types.NewInvalidDataError(r, start, "no data chunk")
	}

	if dec.Metadata != nil {
		m.Name = dec.Metadata.Title
	}

	m.Size = uint64(dec.PCMSize)
	if blockAlign := pcmBlockAlign(dec); blockAlign > 0 {
		m.SampleCount = m.Size / blockAlign
		m.Duration = types.DurationFromSamples(m.SampleCount, m.SampleRate)
	} else if dec.AvgBytesPerSec > 0 {
		m.Duration = time.Duration(m.Size * uint64(time.Second) / uint64(dec.AvgBytesPerSec))
	}
	return nil
}

// pcmBlockAlign returns the bytes per sample frame of uncompressed data,
// 0 for compressed formats.
func pcmBlockAlign(dec *wav.Decoder) uint64 {
	switch dec.WavAudioFormat {
	case formatPCM, formatFloat, formatALaw, formatMuLaw, formatExtensible:
		return uint64(dec.NumChans) * uint64((dec.BitDepth+7)/8)
	}
	return 0
}

// formatTagID renders a format tag the way it is usually documented.
func formatTagID(tag uint16) string {
	return fmt.Sprintf("0x%04X", tag)
}

func init() {
	registry.Register(types.ContainerWAVE, func() types.Decoder { return &Decoder{} })
}
