package types

import "fmt"

// Codec identifies the general coding format of a track.
type Codec int

const (
	// CodecUnknown is an unidentified coding format.
	CodecUnknown Codec = iota
	// CodecMPEG1Audio is MPEG-1 audio; Sub holds the layer.
	CodecMPEG1Audio
	// CodecMPEG2Audio is MPEG-2 (and 2.5) audio; Sub holds the layer.
	CodecMPEG2Audio
	// CodecAAC is Advanced Audio Coding.
	CodecAAC
	// CodecALAC is Apple Lossless.
	CodecALAC
	// CodecAC3 is Dolby Digital.
	CodecAC3
	// CodecEAC3 is Dolby Digital Plus.
	CodecEAC3
	// CodecDTS is DTS Coherent Acoustics.
	CodecDTS
	// CodecFLAC is the Free Lossless Audio Codec.
	CodecFLAC
	// CodecOpus is Opus.
	CodecOpus
	// CodecVorbis is Vorbis.
	CodecVorbis
	// CodecPCM is uncompressed linear PCM; Sub holds the sample layout.
	CodecPCM
	// CodecALaw is G.711 A-law.
	CodecALaw
	// CodecMuLaw is G.711 µ-law.
	CodecMuLaw
	// CodecAVC is H.264.
	CodecAVC
	// CodecHEVC is H.265.
	CodecHEVC
	// CodecMPEG4Video is MPEG-4 Part 2 visual.
	CodecMPEG4Video
	// CodecVP8 is VP8.
	CodecVP8
	// CodecVP9 is VP9.
	CodecVP9
	// CodecAV1 is AV1.
	CodecAV1
	// CodecTheora is Theora.
	CodecTheora
	// CodecTimedText is 3GPP timed text.
	CodecTimedText
	// CodecSubRip is SubRip text.
	CodecSubRip
	// CodecASS is Advanced SubStation Alpha.
	CodecASS
	// CodecWebVTT is WebVTT.
	CodecWebVTT
)

// Sub-formats of CodecMPEG1Audio and CodecMPEG2Audio.
const (
	SubLayer1 uint8 = 1
	SubLayer2 uint8 = 2
	SubLayer3 uint8 = 3
)

// Sub-formats of CodecPCM.
const (
	SubPCMIntLE uint8 = 1
	SubPCMIntBE uint8 = 2
	SubPCMFloat uint8 = 3
)

// Format describes the coding format of a track: a general codec plus an
// optional codec-specific sub-format.
type Format struct {
	Codec Codec
	Sub   uint8
}

// IsZero reports whether the format is unknown.
func (f Format) IsZero() bool {
	return f.Codec == CodecUnknown
}

// Name returns the human-readable name of the format, or "" if unknown.
func (f Format) Name() string {
	switch f.Codec {
	case CodecMPEG1Audio, CodecMPEG2Audio:
		version := "1"
		if f.Codec == CodecMPEG2Audio {
			version = "2"
		}
		if f.Sub >= SubLayer1 && f.Sub <= SubLayer3 {
			return fmt.Sprintf("MPEG-%s Audio Layer %d", version, f.Sub)
		}
		return "MPEG-" + version + " Audio"
	case CodecPCM:
		switch f.Sub {
		case SubPCMIntBE:
			return "Linear PCM (big-endian)"
		case SubPCMFloat:
			return "Linear PCM (float)"
		default:
			return "Linear PCM"
		}
	}
	return codecNames[f.Codec].name
}

// Abbreviation returns a common abbreviation of the format, or "" if unknown.
func (f Format) Abbreviation() string {
	switch f.Codec {
	case CodecMPEG1Audio, CodecMPEG2Audio:
		switch f.Sub {
		case SubLayer1:
			return "MP1"
		case SubLayer2:
			return "MP2"
		case SubLayer3:
			return "MP3"
		}
		return "MPEG Audio"
	}
	return codecNames[f.Codec].abbreviation
}

func (f Format) String() string {
	return f.Name()
}

type codecName struct {
	name         string
	abbreviation string
}

var codecNames = map[Codec]codecName{
	CodecAAC:        {"Advanced Audio Coding", "AAC"},
	CodecALAC:       {"Apple Lossless Audio Codec", "ALAC"},
	CodecAC3:        {"Dolby Digital", "AC-3"},
	CodecEAC3:       {"Dolby Digital Plus", "E-AC-3"},
	CodecDTS:        {"DTS Coherent Acoustics", "DTS"},
	CodecFLAC:       {"Free Lossless Audio Codec", "FLAC"},
	CodecOpus:       {"Opus", "Opus"},
	CodecVorbis:     {"Vorbis", "Vorbis"},
	CodecPCM:        {"Linear PCM", "PCM"},
	CodecALaw:       {"A-law PCM", "A-law"},
	CodecMuLaw:      {"µ-law PCM", "µ-law"},
	CodecAVC:        {"Advanced Video Coding", "H.264"},
	CodecHEVC:       {"High Efficiency Video Coding", "H.265"},
	CodecMPEG4Video: {"MPEG-4 Visual", "MPEG-4"},
	CodecVP8:        {"VP8", "VP8"},
	CodecVP9:        {"VP9", "VP9"},
	CodecAV1:        {"AOMedia Video 1", "AV1"},
	CodecTheora:     {"Theora", "Theora"},
	CodecTimedText:  {"3GPP Timed Text", "TTXT"},
	CodecSubRip:     {"SubRip", "SRT"},
	CodecASS:        {"Advanced SubStation Alpha", "ASS"},
	CodecWebVTT:     {"Web Video Text Tracks", "WebVTT"},
}
