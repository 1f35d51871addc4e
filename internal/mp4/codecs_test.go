package mp4

import (
	"testing"

	"github.com/simonhull/mediatrack/internal/types"
)

func TestDecodeLanguage(t *testing.T) {
	tests := []struct {
		packed uint16
		want   string
	}{
		{0x15C7, "eng"},
		{0x1A41, "fra"},
		{0x55C4, "und"},
		{0, ""},
		{0x7FFF, ""},
	}

	for _, tt := range tests {
		if got := decodeLanguage(tt.packed); got != tt.want {
			t.Errorf("decodeLanguage(0x%04X) = %q, want %q", tt.packed, got, tt.want)
		}
	}
}

func TestApplyFourCC(t *testing.T) {
	tests := []struct {
		fourCC   string
		wantAbbr string
		wantName string
	}{
		{"mp4a", "AAC", "Advanced Audio Coding"},
		{"alac", "ALAC", "Apple Lossless Audio Codec"},
		{"avc1", "H.264", "Advanced Video Coding"},
		{".mp3", "MP3", "MPEG-1 Audio Layer 3"},
		{"ac-4", "ac-4", "AC-4"},
		{"zzzz", "zzzz", ""},
	}

	for _, tt := range tests {
		t.Run(tt.fourCC, func(t *testing.T) {
			m := types.NewMetadata()
			applyFourCC(tt.fourCC, m)

			if got := m.FormatAbbreviation(); got != tt.wantAbbr {
				t.Errorf("abbreviation = %q, want %q", got, tt.wantAbbr)
			}
			if got := m.FormatName(); got != tt.wantName {
				t.Errorf("name = %q, want %q", got, tt.wantName)
			}
		})
	}
}

// esdsPayload builds an ES descriptor with a DecoderConfigDescriptor.
func esdsPayload(objectType uint8, maxBitrate, avgBitrate uint32) []byte {
	dcd := []byte{
		objectType,
		0x15,             // streamType audio
		0x00, 0x00, 0x00, // bufferSizeDB
		byte(maxBitrate >> 24), byte(maxBitrate >> 16), byte(maxBitrate >> 8), byte(maxBitrate),
		byte(avgBitrate >> 24), byte(avgBitrate >> 16), byte(avgBitrate >> 8), byte(avgBitrate),
	}
	es := append([]byte{0x00, 0x01, 0x00}, 0x04, byte(len(dcd)))
	es = append(es, dcd...)
	return append([]byte{0x03, byte(len(es))}, es...)
}

func TestParseDecoderConfig(t *testing.T) {
	objectType, maxBitrate, avgBitrate, ok := parseDecoderConfig(esdsPayload(0x40, 320000, 256000))
	if !ok {
		t.Fatal("expected decoder config")
	}
	if objectType != 0x40 {
		t.Errorf("expected object type 0x40, got 0x%02X", objectType)
	}
	if maxBitrate != 320000 || avgBitrate != 256000 {
		t.Errorf("expected 320000/256000, got %d/%d", maxBitrate, avgBitrate)
	}
}

func TestParseDecoderConfig_ExtendedSizes(t *testing.T) {
	// Sizes encoded with continuation bytes, as iTunes writes them.
	data := []byte{0x03, 0x80, 0x80, 0x80, 0x22, 0x00, 0x01, 0x00,
		0x04, 0x80, 0x80, 0x80, 0x14,
		0x6B, 0x15, 0x00, 0x00, 0x00,
		0x00, 0x01, 0xF4, 0x00,
		0x00, 0x01, 0xF4, 0x00,
	}
	objectType, maxBitrate, avgBitrate, ok := parseDecoderConfig(data)
	if !ok {
		t.Fatal("expected decoder config")
	}
	if objectType != 0x6B || maxBitrate != 128000 || avgBitrate != 128000 {
		t.Errorf("got 0x%02X %d %d", objectType, maxBitrate, avgBitrate)
	}
}

func TestParseDecoderConfig_Malformed(t *testing.T) {
	for name, data := range map[string][]byte{
		"empty":         nil,
		"wrong tag":     {0x05, 0x02, 0x00, 0x00},
		"truncated":     {0x03, 0x10, 0x00, 0x01},
		"no config tag": {0x03, 0x05, 0x00, 0x01, 0x00, 0x06, 0x00},
	} {
		if _, _, _, ok := parseDecoderConfig(data); ok {
			t.Errorf("%s: expected failure", name)
		}
	}
}
