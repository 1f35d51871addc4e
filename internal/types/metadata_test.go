package types

import (
	"testing"
	"time"
)

func TestNewMetadata_Defaults(t *testing.T) {
	m := NewMetadata()

	if !m.Enabled || !m.UsedInPresentation || !m.UsedWhenPreviewing {
		t.Errorf("flags = %v/%v/%v, want all true", m.Enabled, m.UsedInPresentation, m.UsedWhenPreviewing)
	}
	if m.Default || m.Forced || m.Interlaced || m.Lacing || m.Encrypted {
		t.Error("optional flags should default to false")
	}
	if m.Bitrate != 0 || m.SampleRate != 0 || m.Duration != 0 || m.ID != 0 {
		t.Error("numeric fields should default to zero")
	}
	if !m.Format.IsZero() {
		t.Errorf("Format = %v, want zero", m.Format)
	}
	if m.MediaTypeName() != "Other" {
		t.Errorf("MediaTypeName() = %q, want Other", m.MediaTypeName())
	}
}

func TestMetadata_Label(t *testing.T) {
	tests := []struct {
		name string
		m    Metadata
		want string
	}{
		{
			name: "undetermined language omitted",
			m:    Metadata{ID: 2, MediaType: MediaTypeAudio, Language: "und"},
			want: "ID: 2, type: Audio",
		},
		{
			name: "empty language omitted",
			m:    Metadata{ID: 7, MediaType: MediaTypeVideo},
			want: "ID: 7, type: Video",
		},
		{
			name: "name and language",
			m:    Metadata{ID: 3, MediaType: MediaTypeText, Name: "Commentary", Language: "eng"},
			want: `ID: 3, type: Subtitle, name: "Commentary", language: "eng"`,
		},
		{
			name: "language only",
			m:    Metadata{ID: 1, MediaType: MediaTypeHint, Language: "fre"},
			want: `ID: 1, type: Hint, language: "fre"`,
		},
		{
			name: "unknown media type",
			m:    Metadata{ID: 0, Name: "x"},
			want: `ID: 0, type: Other, name: "x"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Label(); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMetadata_FormatName(t *testing.T) {
	tests := []struct {
		name     string
		m        Metadata
		wantName string
		wantAbbr string
	}{
		{
			name:     "structured format wins",
			m:        Metadata{Format: Format{Codec: CodecMPEG1Audio, Sub: SubLayer3}, RawFormatName: "raw", RawFormatID: "mp4a"},
			wantName: "MPEG-1 Audio Layer 3",
			wantAbbr: "MP3",
		},
		{
			name:     "raw fallback",
			m:        Metadata{RawFormatName: "Sorenson Video", RawFormatID: "SVQ3"},
			wantName: "Sorenson Video",
			wantAbbr: "SVQ3",
		},
		{
			name:     "nothing known",
			m:        Metadata{},
			wantName: "",
			wantAbbr: "",
		},
		{
			name:     "known codec without abbreviation falls back to raw id",
			m:        Metadata{Format: Format{Codec: CodecFLAC}, RawFormatID: "fLaC"},
			wantName: "Free Lossless Audio Codec",
			wantAbbr: "FLAC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.FormatName(); got != tt.wantName {
				t.Errorf("FormatName() = %q, want %q", got, tt.wantName)
			}
			if got := tt.m.FormatAbbreviation(); got != tt.wantAbbr {
				t.Errorf("FormatAbbreviation() = %q, want %q", got, tt.wantAbbr)
			}
		})
	}
}

func TestMetadata_String(t *testing.T) {
	tests := []struct {
		name string
		m    Metadata
		want string
	}{
		{
			name: "mp3",
			m: Metadata{
				Format:       Format{Codec: CodecMPEG1Audio, Sub: SubLayer3},
				SampleRate:   44100,
				ChannelCount: 2,
				Bitrate:      128,
			},
			want: "MP3 44.1kHz stereo 128kbps",
		},
		{
			name: "flac",
			m: Metadata{
				Format:        Format{Codec: CodecFLAC},
				SampleRate:    96000,
				BitsPerSample: 24,
				ChannelCount:  6,
			},
			want: "FLAC 96.0kHz 24-bit 5.1",
		},
		{
			name: "video",
			m: Metadata{
				Format:    Format{Codec: CodecAVC},
				Width:     1920,
				Height:    1080,
				FrameRate: 23.976,
			},
			want: "H.264 1920x1080 23.976fps",
		},
		{
			name: "empty",
			m:    Metadata{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChannelDescription(t *testing.T) {
	tests := []struct {
		channels uint16
		want     string
	}{
		{0, ""},
		{1, "mono"},
		{2, "stereo"},
		{3, "3ch"},
		{4, "quad"},
		{6, "5.1"},
		{8, "7.1"},
	}
	for _, tt := range tests {
		if got := channelDescription(tt.channels); got != tt.want {
			t.Errorf("channelDescription(%d) = %q, want %q", tt.channels, got, tt.want)
		}
	}
}

func TestMetadata_AddWarning(t *testing.T) {
	m := NewMetadata()
	m.AddWarning("technical", 42, "bad %s", "thing")

	if len(m.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(m.Warnings))
	}
	if got := m.Warnings[0].String(); got != "technical (at offset 42): bad thing" {
		t.Errorf("Warning.String() = %q", got)
	}
}

func TestDurationFromSamples(t *testing.T) {
	tests := []struct {
		samples uint64
		rate    uint32
		want    time.Duration
	}{
		{44100, 44100, time.Second},
		{22050, 44100, 500 * time.Millisecond},
		{48000 * 60, 48000, time.Minute},
		{100, 0, 0},
	}
	for _, tt := range tests {
		if got := DurationFromSamples(tt.samples, tt.rate); got != tt.want {
			t.Errorf("DurationFromSamples(%d, %d) = %v, want %v", tt.samples, tt.rate, got, tt.want)
		}
	}
}

func TestBitrateKbps(t *testing.T) {
	if got := BitrateKbps(16000, time.Second); got != 128 {
		t.Errorf("BitrateKbps() = %v, want 128", got)
	}
	if got := BitrateKbps(16000, 0); got != 0 {
		t.Errorf("BitrateKbps() with zero duration = %v, want 0", got)
	}
}

func TestMediaType_Name(t *testing.T) {
	tests := []struct {
		mt   MediaType
		want string
	}{
		{MediaTypeAudio, "Audio"},
		{MediaTypeVideo, "Video"},
		{MediaTypeText, "Subtitle"},
		{MediaTypeHint, "Hint"},
		{MediaTypeUnknown, "Other"},
		{MediaType(99), "Other"},
	}
	for _, tt := range tests {
		if got := tt.mt.Name(); got != tt.want {
			t.Errorf("MediaType(%d).Name() = %q, want %q", tt.mt, got, tt.want)
		}
	}
}

func TestFormat_Names(t *testing.T) {
	tests := []struct {
		f        Format
		wantName string
		wantAbbr string
	}{
		{Format{Codec: CodecMPEG1Audio, Sub: SubLayer1}, "MPEG-1 Audio Layer 1", "MP1"},
		{Format{Codec: CodecMPEG2Audio, Sub: SubLayer2}, "MPEG-2 Audio Layer 2", "MP2"},
		{Format{Codec: CodecMPEG2Audio}, "MPEG-2 Audio", "MPEG Audio"},
		{Format{Codec: CodecPCM, Sub: SubPCMFloat}, "Linear PCM (float)", "PCM"},
		{Format{Codec: CodecOpus}, "Opus", "Opus"},
		{Format{}, "", ""},
	}
	for _, tt := range tests {
		if got := tt.f.Name(); got != tt.wantName {
			t.Errorf("%+v.Name() = %q, want %q", tt.f, got, tt.wantName)
		}
		if got := tt.f.Abbreviation(); got != tt.wantAbbr {
			t.Errorf("%+v.Abbreviation() = %q, want %q", tt.f, got, tt.wantAbbr)
		}
	}
}
