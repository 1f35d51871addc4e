package mediatrack

import (
	"io"
	"log/slog"
)

// Option configures a Track.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	track, err := mediatrack.Open("movie.mkv",
//	    mediatrack.WithStartOffset(4711),
//	    mediatrack.WithStrictParsing(),
//	)
type Option func(*options)

// options holds the configuration of a Track.
type options struct {
	logger         *slog.Logger
	output         io.WriteSeeker
	path           string
	container      Container // Open only
	startOffset    int64     // Open only
	hasStartOffset bool
	strictParsing  bool // Fail on any warning
	ignoreWarnings bool // Suppress all warnings
}

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger parse progress is reported to. Parses are
// logged at debug level; warnings promoted by WithStrictParsing at warn
// level. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithOutput attaches a write handle to the track. It is stored alongside
// the input and returned by Track.Output; parsing never writes to it.
func WithOutput(w io.WriteSeeker) Option {
	return func(o *options) {
		o.output = w
	}
}

// WithPath sets the path reported in error messages. Open sets it to the
// opened path.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithStrictParsing treats any warning as a fatal error.
//
// By default, a parse that runs into non-fatal issues, like an unreadable
// tag, completes and reports them through Track.Warnings. With strict
// parsing the first warning fails the parse with an *InvalidDataError.
//
// Example:
//
//	track, err := mediatrack.Open("song.mp3", mediatrack.WithStrictParsing())
//	// err != nil if ANY issue is encountered
func WithStrictParsing() Option {
	return func(o *options) {
		o.strictParsing = true
	}
}

// WithIgnoreWarnings suppresses all warnings.
//
// Example:
//
//	track, err := mediatrack.Open("song.flac", mediatrack.WithIgnoreWarnings())
//	// track.Warnings() will always be empty
func WithIgnoreWarnings() Option {
	return func(o *options) {
		o.ignoreWarnings = true
	}
}

// WithContainer makes Open skip container detection. Use it for streams
// whose signature is not at the start of the file, or to force a variant.
func WithContainer(c Container) Option {
	return func(o *options) {
		o.container = c
	}
}

// WithStartOffset sets the byte offset Open parses the track from. It is
// required for containers whose tracks are not elementary streams (MP4 and
// Matroska): there it must point at the trak atom or TrackEntry element.
func WithStartOffset(offset int64) Option {
	return func(o *options) {
		o.startOffset = offset
		o.hasStartOffset = true
	}
}
