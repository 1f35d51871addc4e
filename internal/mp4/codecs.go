package mp4

import "github.com/simonhull/mediatrack/internal/types"

// sampleEntryFormats maps sample entry FourCC codes to format descriptors.
var sampleEntryFormats = map[string]types.Format{
	// AAC family
	"mp4a": {Codec: types.CodecAAC},

	// Dolby family
	"ac-3": {Codec: types.CodecAC3},
	"ec-3": {Codec: types.CodecEAC3},

	// DTS family
	"dtsc": {Codec: types.CodecDTS},
	"dtsh": {Codec: types.CodecDTS},
	"dtsl": {Codec: types.CodecDTS},

	// Lossless
	"alac": {Codec: types.CodecALAC},
	"fLaC": {Codec: types.CodecFLAC},

	// PCM
	"lpcm": {Codec: types.CodecPCM},
	"sowt": {Codec: types.CodecPCM, Sub: types.SubPCMIntLE},
	"twos": {Codec: types.CodecPCM, Sub: types.SubPCMIntBE},
	"in24": {Codec: types.CodecPCM, Sub: types.SubPCMIntBE},
	"fl32": {Codec: types.CodecPCM, Sub: types.SubPCMFloat},
	"alaw": {Codec: types.CodecALaw},
	"ulaw": {Codec: types.CodecMuLaw},

	// Other audio
	"Opus": {Codec: types.CodecOpus},
	".mp3": {Codec: types.CodecMPEG1Audio, Sub: types.SubLayer3},

	// Video
	"avc1": {Codec: types.CodecAVC},
	"avc3": {Codec: types.CodecAVC},
	"hvc1": {Codec: types.CodecHEVC},
	"hev1": {Codec: types.CodecHEVC},
	"mp4v": {Codec: types.CodecMPEG4Video},
	"vp08": {Codec: types.CodecVP8},
	"vp09": {Codec: types.CodecVP9},
	"av01": {Codec: types.CodecAV1},

	// Text
	"tx3g": {Codec: types.CodecTimedText},
	"text": {Codec: types.CodecTimedText},
	"wvtt": {Codec: types.CodecWebVTT},
}

// rawCodecNames names sample entries without a format descriptor.
var rawCodecNames = map[string]string{
	"mhm1": "xHE-AAC",
	"mhm2": "xHE-AAC v2",
	"ac-4": "AC-4",
	"mp4s": "MPEG-4 Systems",
	"rtp ": "RTP hint",
}

// objectTypeFormats refines "mp4a" and "mp4v" entries by the object type
// indication of their decoder configuration.
var objectTypeFormats = map[uint8]types.Format{
	0x20: {Codec: types.CodecMPEG4Video},
	0x21: {Codec: types.CodecAVC},
	0x40: {Codec: types.CodecAAC},
	0x66: {Codec: types.CodecAAC},
	0x67: {Codec: types.CodecAAC},
	0x68: {Codec: types.CodecAAC},
	0x69: {Codec: types.CodecMPEG2Audio, Sub: types.SubLayer3},
	0x6B: {Codec: types.CodecMPEG1Audio, Sub: types.SubLayer3},
	0xA5: {Codec: types.CodecAC3},
	0xA6: {Codec: types.CodecEAC3},
}

// applyFourCC sets the format of m from a sample entry FourCC code.
func applyFourCC(fourCC string, m *types.Metadata) {
	m.RawFormatID = fourCC
	if f, ok := sampleEntryFormats[fourCC]; ok {
		m.Format = f
		return
	}
	m.RawFormatName = rawCodecNames[fourCC]
}

// handlerMediaTypes maps hdlr handler types to media types.
var handlerMediaTypes = map[string]types.MediaType{
	"soun": types.MediaTypeAudio,
	"vide": types.MediaTypeVideo,
	"text": types.MediaTypeText,
	"sbtl": types.MediaTypeText,
	"subt": types.MediaTypeText,
	"clcp": types.MediaTypeText,
	"hint": types.MediaTypeHint,
}

// decodeLanguage decodes the packed ISO 639-2/T code of an mdhd atom:
// three 5-bit letters offset from 0x60.
func decodeLanguage(packed uint16) string {
	if packed == 0 || packed == 0x7FFF {
		return ""
	}
	b := []byte{
		byte(packed>>10&0x1F) + 0x60,
		byte(packed>>5&0x1F) + 0x60,
		byte(packed&0x1F) + 0x60,
	}
	for _, c := range b {
		if c < 'a' || c > 'z' {
			return ""
		}
	}
	return string(b)
}

// parseDecoderConfig navigates the ES descriptor hierarchy of an esds atom
// and returns the DecoderConfigDescriptor fields.
func parseDecoderConfig(data []byte) (objectType uint8, maxBitrate, avgBitrate uint32, ok bool) {
	pos := 0

	readSize := func() int {
		size := 0
		for i := 0; i < 4; i++ {
			if pos >= len(data) {
				return -1
			}
			b := data[pos]
			pos++
			size = (size << 7) | int(b&0x7F)
			if (b & 0x80) == 0 {
				break
			}
		}
		return size
	}

	if pos >= len(data) || data[pos] != 0x03 {
		return 0, 0, 0, false
	}
	pos++
	if readSize() < 0 || pos+3 > len(data) {
		return 0, 0, 0, false
	}
	// ES_ID and flags
	flags := data[pos+2]
	pos += 3
	if flags&0x80 != 0 { // streamDependenceFlag
		pos += 2
	}
	if flags&0x40 != 0 && pos < len(data) { // URL_Flag
		pos += 1 + int(data[pos])
	}
	if flags&0x20 != 0 { // OCRstreamFlag
		pos += 2
	}

	if pos >= len(data) || data[pos] != 0x04 {
		return 0, 0, 0, false
	}
	pos++
	if readSize() < 0 || pos+13 > len(data) {
		return 0, 0, 0, false
	}
	objectType = data[pos]
	// streamType (1), bufferSizeDB (3)
	maxBitrate = uint32(data[pos+5])<<24 | uint32(data[pos+6])<<16 | uint32(data[pos+7])<<8 | uint32(data[pos+8])
	avgBitrate = uint32(data[pos+9])<<24 | uint32(data[pos+10])<<16 | uint32(data[pos+11])<<8 | uint32(data[pos+12])
	return objectType, maxBitrate, avgBitrate, true
}
