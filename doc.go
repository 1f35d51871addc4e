// Package mediatrack reads the technical metadata of media tracks (codec,
// bitrate, sample rate, channel layout, timing) straight from their binary
// headers, without decoding any payload.
//
// # Quick Start
//
// Reading the header of an elementary stream:
//
//	track, err := mediatrack.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer track.Close()
//
//	fmt.Println(track.Label())
//	fmt.Printf("%s, %.0f kbps, %s\n", track.FormatName(), track.Bitrate(), track.Duration())
//
// Tracks inside a multi-track container are addressed by the offset of
// their header, as found in the container's track table:
//
//	track, err := mediatrack.NewTrack(mediatrack.ContainerMP4, f, trakOffset)
//	if err != nil {
//		return err
//	}
//	if err := track.ParseHeader(); err != nil {
//		return err
//	}
//
// # Supported Containers
//
//   - MPEG audio: MPEG-1/2/2.5 Layer I-III frames, Xing/Info VBR headers, ID3 tags
//   - FLAC: STREAMINFO and Vorbis comments
//   - Ogg: Vorbis, Opus and Theora first streams
//   - MP4: one trak atom (tkhd, mdhd, hdlr, stsd, stsz)
//   - WAVE: fmt and data chunks, LIST INFO title
//   - Matroska/WebM: one TrackEntry element
//
// # Parse Lifecycle
//
// Every container shares the same lifecycle. A Track is bound to a stream
// and a start offset when it is created. ParseHeader resets the track,
// seeks to the start offset and runs the container's decoder; the outcome
// is recorded as a ParseState:
//
//	[NewTrack] ── unparsed ──[ParseHeader]──┬── valid:   metadata available
//	                                        └── invalid: defaults + error
//
// Accessors are only meaningful while HeaderValid reports true. After a
// failed parse every field is back at its default.
//
// # Error Handling
//
// A parse fails in one of two ways, distinguished with KindOf:
//
//   - KindTransport: the stream could not be read or positioned (*IOError)
//   - KindInvalidData: the bytes do not form a valid header (*InvalidDataError)
//
// Both are returned unchanged by ParseHeader. Non-fatal findings, such as
// an unreadable ID3v2 tag in front of a valid MPEG frame, are collected as
// warnings instead:
//
//	for _, w := range track.Warnings() {
//		log.Printf("warning: %s", w)
//	}
//
// WithStrictParsing turns the first warning into an invalid-data failure.
//
// # Logging
//
// Parses are logged through log/slog when a logger is supplied with
// WithLogger.
//
// # Concurrency
//
// A Track is not safe for concurrent use. OpenMany parses distinct files
// in parallel, one stream per file.
package mediatrack
