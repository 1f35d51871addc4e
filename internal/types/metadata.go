package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// undeterminedLanguage is the ISO 639-2 code for "undetermined".
const undeterminedLanguage = "und"

// Metadata is the technical description of one media track.
//
// Metadata is populated by a track variant during a header parse. Units are
// shared by all variants: bitrates in kbit/s, rates in Hz, sizes in bytes.
// Zero means "unknown" for every numeric field.
type Metadata struct {
	Warnings []Warning

	// RawFormatName and RawFormatID are the codec name and identifier as
	// stored by the container. They are only reported when Format is unknown.
	RawFormatName string
	RawFormatID   string

	Name     string
	Language string

	Format    Format
	MediaType MediaType

	Version    float64
	Bitrate    float64 // kbit/s
	MaxBitrate float64 // kbit/s
	FrameRate  float64
	Duration   time.Duration

	ID          uint64
	Size        uint64
	SampleCount uint64

	TrackNumber         uint32
	SampleRate          uint32
	ExtensionSampleRate uint32
	BytesPerSecond      uint32
	Quality             uint32
	TimeScale           uint32
	ColorSpace          uint32
	Width               uint32
	Height              uint32

	BitsPerSample uint16
	ChannelCount  uint16
	Depth         uint16

	Interlaced         bool
	Enabled            bool
	Default            bool
	Forced             bool
	Lacing             bool
	Encrypted          bool
	UsedInPresentation bool
	UsedWhenPreviewing bool
}

// NewMetadata returns the defaults a track holds before any successful
// parse: every quantity zero, and the track enabled and usable in
// presentation and preview.
func NewMetadata() *Metadata {
	return &Metadata{
		Enabled:            true,
		UsedInPresentation: true,
		UsedWhenPreviewing: true,
	}
}

// AddWarning records a non-fatal issue.
func (m *Metadata) AddWarning(stage string, offset int64, format string, args ...any) {
	m.Warnings = append(m.Warnings, Warning{
		Stage:   stage,
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	})
}

// MediaTypeName returns the display name of the track's media type.
func (m *Metadata) MediaTypeName() string {
	return m.MediaType.Name()
}

// FormatName returns the descriptor name if known; otherwise the raw
// format name stored by the container, which may be empty.
func (m *Metadata) FormatName() string {
	if !m.Format.IsZero() || m.RawFormatName == "" {
		return m.Format.Name()
	}
	return m.RawFormatName
}

// FormatAbbreviation returns the descriptor abbreviation if there is one;
// otherwise the raw format identifier, which may be empty.
func (m *Metadata) FormatAbbreviation() string {
	if abbr := m.Format.Abbreviation(); abbr != "" || m.RawFormatID == "" {
		return abbr
	}
	return m.RawFormatID
}

// Label returns a one-line description of the track, for example:
//
//	ID: 2, type: Audio, name: "Commentary", language: "eng"
//
// The name is omitted when empty and the language when empty or "und".
func (m *Metadata) Label() string {
	var b strings.Builder
	b.WriteString("ID: ")
	b.WriteString(strconv.FormatUint(m.ID, 10))
	b.WriteString(", type: ")
	b.WriteString(m.MediaTypeName())
	if m.Name != "" {
		fmt.Fprintf(&b, ", name: %q", m.Name)
	}
	if m.Language != "" && m.Language != undeterminedLanguage {
		fmt.Fprintf(&b, ", language: %q", m.Language)
	}
	return b.String()
}

// String returns a short technical summary.
// Example output: "MP3 44.1kHz stereo 128kbps".
func (m *Metadata) String() string {
	parts := []string{m.FormatAbbreviation()}

	if m.Width > 0 && m.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", m.Width, m.Height))
	}
	if m.FrameRate > 0 {
		parts = append(parts, strconv.FormatFloat(m.FrameRate, 'f', -1, 64)+"fps")
	}
	if m.SampleRate > 0 {
		parts = append(parts, fmt.Sprintf("%.1fkHz", float64(m.SampleRate)/1000))
	}
	if m.BitsPerSample > 0 {
		parts = append(parts, fmt.Sprintf("%d-bit", m.BitsPerSample))
	}
	parts = append(parts, channelDescription(m.ChannelCount))
	if m.Bitrate > 0 {
		parts = append(parts, fmt.Sprintf("%.0fkbps", m.Bitrate))
	}

	return join(parts, " ")
}

// channelDescription returns a human-readable channel description.
func channelDescription(channels uint16) string {
	switch channels {
	case 0:
		return ""
	case 1:
		return "mono"
	case 2:
		return "stereo"
	case 4:
		return "quad"
	case 6:
		return "5.1"
	case 8:
		return "7.1"
	default:
		return fmt.Sprintf("%dch", channels)
	}
}

// join concatenates strings with a separator, skipping empty strings.
func join(parts []string, sep string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

// DurationFromSamples converts a sample count to a duration, 0 if the
// rate is unknown.
func DurationFromSamples(samples uint64, sampleRate uint32) time.Duration {
	if sampleRate == 0 {
		return 0
	}
	secs := samples / uint64(sampleRate)
	rem := samples % uint64(sampleRate)
	return time.Duration(secs)*time.Second + time.Duration(rem)*time.Second/time.Duration(sampleRate)
}

// BitrateKbps returns the average bitrate in kbit/s of size bytes played
// over d, 0 if d is not positive.
func BitrateKbps(size uint64, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(size) * 8 / d.Seconds() / 1000
}
