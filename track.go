package mediatrack

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

// Metadata is the technical description of a track. Bitrates are in
// kbit/s, rates in Hz, sizes in bytes, and zero means unknown.
type Metadata = types.Metadata

// ParseState records the outcome of the most recent header parse.
type ParseState = types.ParseState

// ParseStatus is the outcome of a header parse.
type ParseStatus = types.ParseStatus

// Parse statuses.
const (
	StatusUnparsed = types.StatusUnparsed
	StatusValid    = types.StatusValid
	StatusInvalid  = types.StatusInvalid
)

// Track is one media track of a stream, bound to the byte offset its header
// starts at.
//
// A new Track is unparsed: every field is at its default and HeaderValid
// reports false. ParseHeader reads the header; its metadata is only
// exposed while the parse state is valid. After a failed parse the track
// is back at its defaults, so no stale fields from an earlier parse remain.
//
// A Track is not safe for concurrent use, and tracks sharing one stream
// must not be parsed concurrently.
type Track struct {
	in     io.ReadSeeker
	out    io.WriteSeeker
	closer io.Closer // set by Open

	reader  *binary.Reader
	decoder types.Decoder
	logger  *slog.Logger
	path    string

	container      Container
	start          int64
	strictParsing  bool
	ignoreWarnings bool

	meta  *Metadata
	state ParseState
}

// NewTrack binds a track of the given container to in at startOffset. The
// variant that parses the header is chosen here, once; in is not read
// until ParseHeader is called.
//
// NewTrack returns an *UnsupportedFormatError if no variant is available
// for the container.
func NewTrack(container Container, in io.ReadSeeker, startOffset int64, opts ...Option) (*Track, error) {
	o := applyOptions(opts)
	return newTrack(container, in, startOffset, o)
}

func newTrack(container Container, in io.ReadSeeker, startOffset int64, o *options) (*Track, error) {
	if in == nil {
		return nil, fmt.Errorf("mediatrack: nil input stream")
	}
	dec := registry.New(container)
	if dec == nil {
		return nil, &UnsupportedFormatError{
			Path:   o.path,
			Reason: fmt.Sprintf("no track variant for container %s", container),
		}
	}

	return &Track{
		in:             in,
		out:            o.output,
		reader:         binary.NewReader(in, o.path),
		decoder:        dec,
		logger:         o.logger,
		path:           o.path,
		container:      container,
		start:          startOffset,
		strictParsing:  o.strictParsing,
		ignoreWarnings: o.ignoreWarnings,
		meta:           types.NewMetadata(),
	}, nil
}

// ParseHeader parses the track header from the start offset.
//
// The parse state is reset first. Transport and invalid-data failures are
// returned unchanged and leave the track invalid at its defaults; on
// success the track holds the new metadata and is valid. ParseHeader may
// be called again to re-read the header from scratch.
func (t *Track) ParseHeader() error {
	t.state = ParseState{Status: StatusUnparsed}
	t.meta = types.NewMetadata()

	t.logger.Debug("parsing track header",
		"container", t.container.String(),
		"offset", t.start,
		"path", t.path)

	m, err := types.ParseHeader(t.decoder, t.reader, t.start)
	if err == nil && t.strictParsing && len(m.Warnings) > 0 {
		for _, w := range m.Warnings {
			t.logger.Warn("track header warning", "path", t.path, "warning", w.String())
		}
		first := m.Warnings[0]
		err = &InvalidDataError{
			Path:   t.path,
			Offset: first.Offset,
			Reason: "strict parsing: " + first.Message,
		}
	}
	if err != nil {
		t.state = ParseState{Status: StatusInvalid, Err: err}
		t.logger.Debug("track header invalid",
			"path", t.path,
			"kind", KindOf(err).String(),
			"error", err)
		return err
	}

	if t.ignoreWarnings {
		m.Warnings = nil
	}
	t.meta = m
	t.state = ParseState{Status: StatusValid}
	t.logger.Debug("track header parsed",
		"path", t.path,
		"label", m.Label(),
		"format", m.FormatName(),
		"warnings", len(m.Warnings))
	return nil
}

// State returns the outcome of the most recent parse.
func (t *Track) State() ParseState { return t.state }

// HeaderValid reports whether the most recent parse succeeded.
func (t *Track) HeaderValid() bool { return t.state.Valid() }

// Metadata returns a copy of the track's metadata: the parsed fields if
// the header is valid, the defaults otherwise.
func (t *Track) Metadata() Metadata {
	m := *t.meta
	m.Warnings = append([]Warning(nil), t.meta.Warnings...)
	return m
}

// Container returns the container the track was bound with.
func (t *Track) Container() Container { return t.container }

// StartOffset returns the offset of the track header in the input stream.
func (t *Track) StartOffset() int64 { return t.start }

// Input returns the stream the header is parsed from.
func (t *Track) Input() io.ReadSeeker { return t.in }

// Output returns the write handle set by WithOutput, or nil.
func (t *Track) Output() io.WriteSeeker { return t.out }

// Path returns the path used in error messages, which may be empty.
func (t *Track) Path() string { return t.path }

// Warnings returns a copy of the non-fatal issues found by the last
// successful parse.
func (t *Track) Warnings() []Warning {
	if len(t.meta.Warnings) == 0 {
		return nil
	}
	return append([]Warning(nil), t.meta.Warnings...)
}

// ID returns the track identifier.
func (t *Track) ID() uint64 { return t.meta.ID }

// TrackNumber returns the track number within its container.
func (t *Track) TrackNumber() uint32 { return t.meta.TrackNumber }

// MediaType returns the kind of content the track carries.
func (t *Track) MediaType() MediaType { return t.meta.MediaType }

// MediaTypeName returns "Audio", "Video", "Subtitle", "Hint" or "Other".
func (t *Track) MediaTypeName() string { return t.meta.MediaTypeName() }

// Format returns the coding format descriptor.
func (t *Track) Format() Format { return t.meta.Format }

// FormatName returns the format name, falling back to the raw name stored
// by the container when the descriptor is unknown.
func (t *Track) FormatName() string { return t.meta.FormatName() }

// FormatAbbreviation returns the format abbreviation, falling back to the
// raw format id stored by the container.
func (t *Track) FormatAbbreviation() string { return t.meta.FormatAbbreviation() }

// Name returns the track name, if the container stores one.
func (t *Track) Name() string { return t.meta.Name }

// Language returns the track language code, if the container stores one.
func (t *Track) Language() string { return t.meta.Language }

// Label returns a one-line description such as
// `ID: 2, type: Audio, language: "eng"`.
func (t *Track) Label() string { return t.meta.Label() }

// Bitrate returns the average bitrate in kbit/s.
func (t *Track) Bitrate() float64 { return t.meta.Bitrate }

// SampleRate returns the sample rate in Hz.
func (t *Track) SampleRate() uint32 { return t.meta.SampleRate }

// ChannelCount returns the number of audio channels.
func (t *Track) ChannelCount() uint16 { return t.meta.ChannelCount }

// SampleCount returns the number of samples, or frames for video.
func (t *Track) SampleCount() uint64 { return t.meta.SampleCount }

// Duration returns the playback duration.
func (t *Track) Duration() time.Duration { return t.meta.Duration }

func (t *Track) String() string {
	if !t.HeaderValid() {
		return fmt.Sprintf("%s track at offset %d (%s)", t.container, t.start, t.state)
	}
	return t.meta.String()
}

// Close releases the file opened by Open. It is a no-op for tracks made
// with NewTrack, whose streams belong to the caller.
func (t *Track) Close() error {
	if t.closer == nil {
		return nil
	}
	err := t.closer.Close()
	t.closer = nil
	return err
}
