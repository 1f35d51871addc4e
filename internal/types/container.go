package types

import (
	"io"
	"strings"

	"github.com/simonhull/mediatrack/internal/binary"
)

// Container identifies the track variant able to parse a header.
type Container int

const (
	// ContainerUnknown represents an unknown or unsupported container.
	ContainerUnknown Container = iota
	// ContainerMPEGAudio is a raw MPEG audio elementary stream (MP1/MP2/MP3).
	ContainerMPEGAudio
	// ContainerFLAC is a native FLAC stream.
	ContainerFLAC
	// ContainerOgg is an Ogg bitstream carrying Vorbis or Opus.
	ContainerOgg
	// ContainerMP4 is one trak atom of an ISO base media file.
	ContainerMP4
	// ContainerWAVE is a RIFF/WAVE file.
	ContainerWAVE
	// ContainerMatroska is one TrackEntry element of a Matroska/WebM file.
	ContainerMatroska
)

func (c Container) String() string {
	switch c {
	case ContainerMPEGAudio:
		return "MPEG Audio"
	case ContainerFLAC:
		return "FLAC"
	case ContainerOgg:
		return "Ogg"
	case ContainerMP4:
		return "MP4"
	case ContainerWAVE:
		return "WAVE"
	case ContainerMatroska:
		return "Matroska"
	default:
		return "Unknown"
	}
}

// Extensions returns common file extensions for this container.
func (c Container) Extensions() []string {
	switch c {
	case ContainerMPEGAudio:
		return []string{".mp3", ".mp2", ".mp1"}
	case ContainerFLAC:
		return []string{".flac"}
	case ContainerOgg:
		return []string{".ogg", ".oga", ".opus"}
	case ContainerMP4:
		return []string{".mp4", ".m4a", ".m4b", ".m4v", ".mov"}
	case ContainerWAVE:
		return []string{".wav"}
	case ContainerMatroska:
		return []string{".mkv", ".mka", ".webm"}
	default:
		return nil
	}
}

// IsElementary reports whether the track of this container starts at the
// beginning of the file, so its start offset is known without enumerating
// container-level track tables.
func (c Container) IsElementary() bool {
	switch c {
	case ContainerMPEGAudio, ContainerFLAC, ContainerOgg, ContainerWAVE:
		return true
	default:
		return false
	}
}

// ParseContainer maps a short name ("mp3", "flac", "ogg", "mp4", "wav",
// "mkv" and a few aliases) to a Container.
func ParseContainer(name string) Container {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "mp3", "mp2", "mp1", "mpeg", "mpa", "mpeg audio":
		return ContainerMPEGAudio
	case "flac":
		return ContainerFLAC
	case "ogg", "oga", "opus":
		return ContainerOgg
	case "mp4", "m4a", "m4b", "m4v", "mov", "isobmff":
		return ContainerMP4
	case "wav", "wave", "riff":
		return ContainerWAVE
	case "mkv", "mka", "webm", "matroska":
		return ContainerMatroska
	default:
		return ContainerUnknown
	}
}

// DetectContainer determines the container by examining magic bytes at the
// start of the stream. The stream is left positioned at offset 0.
//
// Detection is based on file signatures only; it does not validate the
// structure behind them.
func DetectContainer(rs io.ReadSeeker, path string) (Container, error) {
	r := binary.NewReader(rs, path)
	if err := r.SeekTo(0, "file magic bytes"); err != nil {
		return ContainerUnknown, err
	}

	magic := make([]byte, 12)
	n, err := io.ReadFull(r, magic)
	if _, serr := r.Seek(0, io.SeekStart); serr != nil {
		return ContainerUnknown, &IOError{Path: path, What: "file magic bytes", Err: serr}
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		if err == io.EOF {
			return ContainerUnknown, &UnsupportedFormatError{Path: path, Reason: "file too small"}
		}
		return ContainerUnknown, &IOError{Path: path, What: "file magic bytes", Err: err}
	}
	magic = magic[:n]

	if n < 4 {
		return ContainerUnknown, &UnsupportedFormatError{
			Path:   path,
			Reason: "file too small",
		}
	}

	switch {
	case string(magic[:4]) == "fLaC":
		return ContainerFLAC, nil
	case string(magic[:3]) == "ID3":
		return ContainerMPEGAudio, nil
	case magic[0] == 0xFF && magic[1]&0xE0 == 0xE0:
		// Frame sync without a leading tag
		return ContainerMPEGAudio, nil
	case string(magic[:4]) == "OggS":
		return ContainerOgg, nil
	case string(magic[:4]) == "\x1A\x45\xDF\xA3":
		return ContainerMatroska, nil
	case n >= 12 && string(magic[:4]) == "RIFF" && string(magic[8:12]) == "WAVE":
		return ContainerWAVE, nil
	case n >= 8 && string(magic[4:8]) == "ftyp":
		return ContainerMP4, nil
	}

	return ContainerUnknown, &UnsupportedFormatError{
		Path:   path,
		Reason: "unsupported file format",
	}
}
