package mediatrack

import (
	"io"

	"github.com/simonhull/mediatrack/internal/types"
)

// Format describes the coding format of a track. The zero Format is
// unknown.
type Format = types.Format

// Codec identifies the general coding format of a track.
type Codec = types.Codec

// Codecs.
const (
	CodecUnknown    = types.CodecUnknown
	CodecMPEG1Audio = types.CodecMPEG1Audio
	CodecMPEG2Audio = types.CodecMPEG2Audio
	CodecAAC        = types.CodecAAC
	CodecALAC       = types.CodecALAC
	CodecAC3        = types.CodecAC3
	CodecEAC3       = types.CodecEAC3
	CodecDTS        = types.CodecDTS
	CodecFLAC       = types.CodecFLAC
	CodecOpus       = types.CodecOpus
	CodecVorbis     = types.CodecVorbis
	CodecPCM        = types.CodecPCM
	CodecALaw       = types.CodecALaw
	CodecMuLaw      = types.CodecMuLaw
	CodecAVC        = types.CodecAVC
	CodecHEVC       = types.CodecHEVC
	CodecMPEG4Video = types.CodecMPEG4Video
	CodecVP8        = types.CodecVP8
	CodecVP9        = types.CodecVP9
	CodecAV1        = types.CodecAV1
	CodecTheora     = types.CodecTheora
	CodecTimedText  = types.CodecTimedText
	CodecSubRip     = types.CodecSubRip
	CodecASS        = types.CodecASS
	CodecWebVTT     = types.CodecWebVTT
)

// MediaType is the kind of content a track carries.
type MediaType = types.MediaType

// Media types.
const (
	MediaTypeUnknown = types.MediaTypeUnknown
	MediaTypeAudio   = types.MediaTypeAudio
	MediaTypeVideo   = types.MediaTypeVideo
	MediaTypeText    = types.MediaTypeText
	MediaTypeHint    = types.MediaTypeHint
)

// Container identifies the track variant able to parse a header.
type Container = types.Container

// Containers.
const (
	ContainerUnknown   = types.ContainerUnknown
	ContainerMPEGAudio = types.ContainerMPEGAudio
	ContainerFLAC      = types.ContainerFLAC
	ContainerOgg       = types.ContainerOgg
	ContainerMP4       = types.ContainerMP4
	ContainerWAVE      = types.ContainerWAVE
	ContainerMatroska  = types.ContainerMatroska
)

// DetectContainer examines the signature at the start of rs. The stream is
// left at offset 0.
func DetectContainer(rs io.ReadSeeker, path string) (Container, error) {
	return types.DetectContainer(rs, path)
}

// ParseContainer maps a short name such as "mp3" or "mkv" to a Container.
func ParseContainer(name string) Container {
	return types.ParseContainer(name)
}
