package mediatrack_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/mediatrack"
)

// mp3Frames returns n CBR frames of MPEG-1 Layer III, 128 kbps, 44.1 kHz.
func mp3Frames(n int) []byte {
	frame := make([]byte, 417)
	binary.BigEndian.PutUint32(frame, 0xFFFB9064)
	return bytes.Repeat(frame, n)
}

// freeFormatFrame returns a frame whose bitrate index is 0.
func freeFormatFrame() []byte {
	frame := make([]byte, 100)
	binary.BigEndian.PutUint32(frame, 0xFFFB0064)
	return frame
}

// flakyStream fails every operation once broken.
type flakyStream struct {
	*bytes.Reader
	broken bool
}

var errUnplugged = errors.New("device unplugged")

func (s *flakyStream) Read(p []byte) (int, error) {
	if s.broken {
		return 0, errUnplugged
	}
	return s.Reader.Read(p)
}

func (s *flakyStream) Seek(offset int64, whence int) (int64, error) {
	if s.broken {
		return 0, errUnplugged
	}
	return s.Reader.Seek(offset, whence)
}

func TestTrack_FreshTrackIsUnparsed(t *testing.T) {
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(mp3Frames(4)), 0)
	require.NoError(t, err)

	assert.False(t, track.HeaderValid())
	assert.Equal(t, mediatrack.StatusUnparsed, track.State().Status)
	assert.Equal(t, mediatrack.KindNone, track.State().Kind())
	assert.Zero(t, track.Bitrate())
	assert.Zero(t, track.SampleRate())
	assert.Zero(t, track.ChannelCount())
	assert.Zero(t, track.Duration())

	m := track.Metadata()
	assert.True(t, m.Enabled)
	assert.True(t, m.UsedInPresentation)
	assert.True(t, m.UsedWhenPreviewing)
	assert.False(t, m.Default)
	assert.False(t, m.Encrypted)
}

func TestTrack_ParseHeader(t *testing.T) {
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(mp3Frames(10)), 0)
	require.NoError(t, err)
	require.NoError(t, track.ParseHeader())

	assert.True(t, track.HeaderValid())
	assert.Equal(t, mediatrack.StatusValid, track.State().Status)
	assert.Equal(t, "MP3", track.FormatAbbreviation())
	assert.Equal(t, "MPEG-1 Audio Layer 3", track.FormatName())
	assert.Equal(t, 128.0, track.Bitrate())
	assert.Equal(t, uint32(44100), track.SampleRate())
	assert.Equal(t, uint16(2), track.ChannelCount())
	assert.Equal(t, uint64(11520), track.SampleCount())
	// 4170 bytes at 128 kbps
	assert.Equal(t, 260625*time.Microsecond, track.Duration())
	assert.Equal(t, "ID: 0, type: Audio", track.Label())
	assert.Equal(t, "MP3 44.1kHz stereo 128kbps", track.String())
}

func TestTrack_ReparseResetsState(t *testing.T) {
	data := mp3Frames(1)
	stream := &flakyStream{Reader: bytes.NewReader(data)}
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, stream, 0)
	require.NoError(t, err)
	require.NoError(t, track.ParseHeader())
	require.True(t, track.HeaderValid())

	t.Run("invalid data", func(t *testing.T) {
		data[0], data[1] = 0, 0
		defer func() { data[0], data[1] = 0xFF, 0xFB }()

		err := track.ParseHeader()
		require.Error(t, err)
		assert.True(t, errors.Is(err, mediatrack.ErrInvalidData))
		assert.False(t, track.HeaderValid())
		assert.Equal(t, mediatrack.KindInvalidData, track.State().Kind())
		assert.Zero(t, track.Bitrate())
		assert.True(t, track.Format().IsZero())
		assert.Equal(t, "ID: 0, type: Other", track.Label())
	})

	require.NoError(t, track.ParseHeader())
	require.True(t, track.HeaderValid())

	t.Run("transport", func(t *testing.T) {
		stream.broken = true
		defer func() { stream.broken = false }()

		err := track.ParseHeader()
		require.Error(t, err)
		var ioErr *mediatrack.IOError
		require.True(t, errors.As(err, &ioErr))
		assert.True(t, errors.Is(err, errUnplugged))
		assert.False(t, track.HeaderValid())
		assert.Equal(t, mediatrack.KindTransport, track.State().Kind())
		assert.Zero(t, track.SampleRate())
		assert.Contains(t, track.String(), "invalid")
	})
}

// tailFailStream fails every read from failAt onwards.
type tailFailStream struct {
	*bytes.Reader
	failAt int64
}

func (s *tailFailStream) Read(p []byte) (int, error) {
	pos, _ := s.Reader.Seek(0, io.SeekCurrent)
	if pos >= s.failAt {
		return 0, errUnplugged
	}
	if rest := s.failAt - pos; int64(len(p)) > rest {
		p = p[:rest]
	}
	return s.Reader.Read(p)
}

// A failure while looking for a trailing ID3v1 tag invalidates the track.
func TestTrack_TrailingTagReadFailure(t *testing.T) {
	data := mp3Frames(200)
	stream := &tailFailStream{Reader: bytes.NewReader(data), failAt: int64(len(data)) - 128}
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, stream, 0)
	require.NoError(t, err)

	err = track.ParseHeader()
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnplugged)
	assert.False(t, track.HeaderValid())
	assert.Equal(t, mediatrack.KindTransport, track.State().Kind())
}

func TestTrack_StartOffset(t *testing.T) {
	data := append(make([]byte, 1000), mp3Frames(2)...)
	// Garbage at offset 0 that would decode as a frame if it were read.
	binary.BigEndian.PutUint32(data, 0xFFF3E0C4)

	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(data), 1000)
	require.NoError(t, err)
	require.NoError(t, track.ParseHeader())
	assert.Equal(t, int64(1000), track.StartOffset())
	assert.Equal(t, uint32(44100), track.SampleRate())
}

func TestTrack_StrictParsing(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	lenient, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(freeFormatFrame()), 0)
	require.NoError(t, err)
	require.NoError(t, lenient.ParseHeader())
	assert.Len(t, lenient.Warnings(), 1)

	strict, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(freeFormatFrame()), 0,
		mediatrack.WithStrictParsing(),
		mediatrack.WithLogger(logger),
		mediatrack.WithPath("free.mp3"),
	)
	require.NoError(t, err)

	err = strict.ParseHeader()
	require.Error(t, err)
	assert.Equal(t, mediatrack.KindInvalidData, mediatrack.KindOf(err))
	assert.Contains(t, err.Error(), "free.mp3")
	assert.Contains(t, err.Error(), "free format")
	assert.False(t, strict.HeaderValid())

	out := logs.String()
	assert.Contains(t, out, "level=DEBUG msg=\"parsing track header\"")
	assert.Contains(t, out, "level=WARN msg=\"track header warning\"")
}

func TestTrack_IgnoreWarnings(t *testing.T) {
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(freeFormatFrame()), 0,
		mediatrack.WithIgnoreWarnings())
	require.NoError(t, err)
	require.NoError(t, track.ParseHeader())
	assert.Empty(t, track.Warnings())
	assert.True(t, track.HeaderValid())
}

func TestTrack_MetadataIsACopy(t *testing.T) {
	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, bytes.NewReader(freeFormatFrame()), 0)
	require.NoError(t, err)
	require.NoError(t, track.ParseHeader())

	m := track.Metadata()
	m.SampleRate = 1
	m.Warnings[0].Message = "changed"

	assert.Equal(t, uint32(44100), track.SampleRate())
	assert.NotEqual(t, "changed", track.Warnings()[0].Message)

	warnings := track.Warnings()
	warnings[0].Message = "changed"
	assert.NotEqual(t, "changed", track.Warnings()[0].Message)
	assert.NotEqual(t, "changed", track.Metadata().Warnings[0].Message)
}

type discardWriteSeeker struct{}

func (discardWriteSeeker) Write(p []byte) (int, error)    { return len(p), nil }
func (discardWriteSeeker) Seek(int64, int) (int64, error) { return 0, nil }

func TestTrack_Handles(t *testing.T) {
	in := bytes.NewReader(mp3Frames(1))
	out := discardWriteSeeker{}

	track, err := mediatrack.NewTrack(mediatrack.ContainerMPEGAudio, in, 0, mediatrack.WithOutput(out))
	require.NoError(t, err)

	assert.Same(t, in, track.Input())
	assert.Equal(t, out, track.Output())
	assert.Equal(t, mediatrack.ContainerMPEGAudio, track.Container())
	assert.NoError(t, track.Close())
}

func TestNewTrack_Errors(t *testing.T) {
	_, err := mediatrack.NewTrack(mediatrack.ContainerUnknown, bytes.NewReader(nil), 0)
	var unsupported *mediatrack.UnsupportedFormatError
	assert.True(t, errors.As(err, &unsupported), "got %v", err)

	_, err = mediatrack.NewTrack(mediatrack.ContainerFLAC, nil, 0)
	assert.Error(t, err)
}

// Every container reports a zero-length stream as a transport failure.
func TestTrack_EmptyStream(t *testing.T) {
	containers := []mediatrack.Container{
		mediatrack.ContainerMPEGAudio,
		mediatrack.ContainerFLAC,
		mediatrack.ContainerOgg,
		mediatrack.ContainerMP4,
		mediatrack.ContainerWAVE,
		mediatrack.ContainerMatroska,
	}

	for _, c := range containers {
		t.Run(c.String(), func(t *testing.T) {
			track, err := mediatrack.NewTrack(c, bytes.NewReader(nil), 0)
			require.NoError(t, err)

			err = track.ParseHeader()
			require.Error(t, err)
			assert.Equal(t, mediatrack.KindTransport, mediatrack.KindOf(err), "%v", err)
			assert.False(t, track.HeaderValid())
		})
	}
}

// Every container rejects a stream that starts with the wrong signature.
func TestTrack_WrongMagic(t *testing.T) {
	junk := []byte(strings.Repeat("\x00junk", 200))
	containers := []mediatrack.Container{
		mediatrack.ContainerMPEGAudio,
		mediatrack.ContainerFLAC,
		mediatrack.ContainerOgg,
		mediatrack.ContainerWAVE,
		mediatrack.ContainerMatroska,
	}

	for _, c := range containers {
		t.Run(c.String(), func(t *testing.T) {
			track, err := mediatrack.NewTrack(c, bytes.NewReader(junk), 0)
			require.NoError(t, err)

			err = track.ParseHeader()
			require.Error(t, err)
			assert.Equal(t, mediatrack.KindInvalidData, mediatrack.KindOf(err), "%v", err)
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, mediatrack.KindNone, mediatrack.KindOf(nil))
	assert.Equal(t, mediatrack.KindOther, mediatrack.KindOf(io.ErrClosedPipe))
	assert.Equal(t, mediatrack.KindInvalidData, mediatrack.KindOf(&mediatrack.InvalidDataError{Reason: "x"}))
	assert.Equal(t, mediatrack.KindTransport, mediatrack.KindOf(&mediatrack.IOError{Err: io.EOF}))
}
