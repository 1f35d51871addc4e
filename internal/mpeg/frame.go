package mpeg

import (
	"time"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/types"
)

const (
	syncMask = 0xFFE00000

	// xingOffset is the position of the Xing/Info word relative to the
	// first byte of the frame.
	xingOffset = 0x24

	xingMarker = 0x58696E67 // "Xing"
	infoMarker = 0x496E666F // "Info"

	tocSize = 64
)

// Bitrates in kbit/s, indexed by [version family][layer-1][bitrate index].
// Index 15 is invalid and not present.
var bitrateTable = [2][3][15]uint32{
	{
		{0, 32, 64, 96, 128, 160, 192, 224, 256, 288, 320, 352, 384, 416, 448},
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320, 384},
		{0, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 256, 320},
	},
	{
		{0, 32, 48, 56, 64, 80, 96, 112, 128, 144, 160, 176, 192, 224, 256},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
		{0, 8, 16, 24, 32, 40, 48, 56, 64, 80, 96, 112, 128, 144, 160},
	},
}

// ChannelMode is the channel mode of an MPEG audio frame.
type ChannelMode int

const (
	ChannelModeUnspecified ChannelMode = iota
	ChannelModeStereo
	ChannelModeJointStereo
	ChannelModeDual
	ChannelModeSingle
)

func (m ChannelMode) String() string {
	switch m {
	case ChannelModeStereo:
		return "stereo"
	case ChannelModeJointStereo:
		return "joint stereo"
	case ChannelModeDual:
		return "dual channel"
	case ChannelModeSingle:
		return "single channel"
	default:
		return "unspecified"
	}
}

// Emphasis is the de-emphasis the decoder should apply.
type Emphasis int

const (
	EmphasisNone Emphasis = iota
	Emphasis50_15
	EmphasisReserved
	EmphasisCCITT
)

// XingFlags tells which optional fields follow the Xing/Info word.
type XingFlags uint32

const (
	XingFrames  XingFlags = 0x1
	XingBytes   XingFlags = 0x2
	XingTOC     XingFlags = 0x4
	XingQuality XingFlags = 0x8
)

// Frame is one decoded MPEG audio frame header together with the Xing/Info
// VBR header that may be embedded in it.
//
// All accessors are computed from the stored words on demand. They return
// 0 (or an Unspecified value) for bit patterns that map to nothing.
type Frame struct {
	header      uint32
	xingHeader  uint64
	xingFlags   XingFlags
	xingFrames  uint32
	xingBytes   uint32
	xingQuality uint32
}

// ParseHeader reads one frame header starting at the current position of r.
//
// A word without the frame sync returns an *types.InvalidDataError and
// nothing beyond the first four bytes is read. The Frame must then be
// discarded.
func (f *Frame) ParseHeader(r *binary.Reader) error {
	*f = Frame{}
	start := r.Offset()

	header, err := r.ReadUint32BE("MPEG frame header")
	if err != nil {
		return err
	}
	f.header = header
	if !f.IsValid() {
		return types.NewInvalidDataError(r, start, "frame sync not found (header 0x%08X)", header)
	}

	if err := r.Skip(xingOffset-4, "MPEG side information"); err != nil {
		return err
	}
	if f.xingHeader, err = r.ReadUint64BE("Xing header"); err != nil {
		return err
	}
	f.xingFlags = XingFlags(f.xingHeader & 0xFFFFFFFF)

	if !f.IsXingHeaderAvailable() {
		return nil
	}
	if f.xingFlags&XingFrames != 0 {
		if f.xingFrames, err = r.ReadUint32BE("Xing frame count"); err != nil {
			return err
		}
	}
	if f.xingFlags&XingBytes != 0 {
		if f.xingBytes, err = r.ReadUint32BE("Xing byte count"); err != nil {
			return err
		}
	}
	if f.xingFlags&XingTOC != 0 {
		if err := r.Skip(tocSize, "Xing table of contents"); err != nil {
			return err
		}
	}
	if f.xingFlags&XingQuality != 0 {
		if f.xingQuality, err = r.ReadUint32BE("Xing quality indicator"); err != nil {
			return err
		}
	}
	return nil
}

// IsValid reports whether the header starts with the frame sync.
func (f *Frame) IsValid() bool {
	return f.header&syncMask == syncMask
}

// Header returns the raw 32-bit header word.
func (f *Frame) Header() uint32 {
	return f.header
}

// Version returns the MPEG version (1, 2 or 2.5), 0 if reserved.
func (f *Frame) Version() float64 {
	switch f.header & 0x180000 {
	case 0x180000:
		return 1.0
	case 0x100000:
		return 2.0
	case 0x0:
		return 2.5
	default:
		return 0.0
	}
}

// Layer returns the MPEG layer (1, 2 or 3), 0 if reserved.
func (f *Frame) Layer() int {
	switch f.header & 0x60000 {
	case 0x60000:
		return 1
	case 0x40000:
		return 2
	case 0x20000:
		return 3
	default:
		return 0
	}
}

// IsProtectedByCRC reports whether a 16-bit CRC follows the header.
func (f *Frame) IsProtectedByCRC() bool {
	return f.header&0x10000 == 0
}

// Bitrate returns the bitrate in kbit/s. Free-format and invalid indices
// return 0.
func (f *Frame) Bitrate() uint32 {
	family, ok := f.versionFamily()
	layer := f.Layer()
	index := (f.header & 0xF000) >> 12
	if !ok || layer == 0 || index >= 15 {
		return 0
	}
	return bitrateTable[family][layer-1][index]
}

// SampleRate returns the sample rate in Hz, 0 if unknown.
func (f *Frame) SampleRate() uint32 {
	var base uint32
	switch f.header & 0xC00 {
	case 0x0:
		base = 44100
	case 0x400:
		base = 48000
	case 0x800:
		base = 32000
	default:
		return 0
	}
	switch f.header & 0x180000 {
	case 0x180000:
		return base
	case 0x100000:
		return base / 2
	case 0x0:
		return base / 4
	default:
		return 0
	}
}

// PaddingSize returns the padding in bytes, 1 if the padding bit is set.
func (f *Frame) PaddingSize() uint32 {
	if f.header&0x200 != 0 {
		return 1
	}
	return 0
}

// HasPrivateBit reports the private bit.
func (f *Frame) HasPrivateBit() bool {
	return f.header&0x100 != 0
}

// ChannelMode returns the channel mode, ChannelModeUnspecified unless the
// frame is valid.
func (f *Frame) ChannelMode() ChannelMode {
	if !f.IsValid() {
		return ChannelModeUnspecified
	}
	switch f.header & 0xC0 {
	case 0xC0:
		return ChannelModeSingle
	case 0x80:
		return ChannelModeDual
	case 0x40:
		return ChannelModeJointStereo
	default:
		return ChannelModeStereo
	}
}

// ChannelCount returns 1 for single channel frames, 2 for the other modes
// and 0 if the mode is unspecified.
func (f *Frame) ChannelCount() uint16 {
	switch f.ChannelMode() {
	case ChannelModeUnspecified:
		return 0
	case ChannelModeSingle:
		return 1
	default:
		return 2
	}
}

// ModeExtension returns the joint stereo mode extension bits.
func (f *Frame) ModeExtension() uint32 {
	return (f.header & 0x30) >> 4
}

// IsCopyrighted reports the copyright bit.
func (f *Frame) IsCopyrighted() bool {
	return f.header&0x8 != 0
}

// IsOriginal reports whether the frame is an original rather than a copy.
func (f *Frame) IsOriginal() bool {
	return f.header&0x4 != 0
}

// Emphasis returns the emphasis field.
func (f *Frame) Emphasis() Emphasis {
	switch f.header & 0x3 {
	case 0x1:
		return Emphasis50_15
	case 0x2:
		return EmphasisReserved
	case 0x3:
		return EmphasisCCITT
	default:
		return EmphasisNone
	}
}

// SampleCount returns the number of samples per channel in one frame,
// 0 if the layer is reserved.
func (f *Frame) SampleCount() uint32 {
	switch f.Layer() {
	case 1:
		return 384
	case 2:
		return 1152
	case 3:
		if f.Version() == 1.0 {
			return 1152
		}
		if f.Version() != 0 {
			return 576
		}
	}
	return 0
}

// Size returns the frame length in bytes including the header, 0 if the
// bitrate or the sample rate is unknown.
//
// Bitrates are in kbit/s of 1000 bits, as in the MPEG audio standard, so
// 0xFFFB9064 (128 kbit/s, 44.1 kHz, Layer III) is 417 bytes. Scaling by
// 1024 instead would give 427, which does not match real streams where the
// next sync word follows after 417 bytes.
func (f *Frame) Size() uint32 {
	bitrate := uint64(f.Bitrate())
	rate := uint64(f.SampleRate())
	if bitrate == 0 || rate == 0 {
		return 0
	}
	padding := uint64(f.PaddingSize())

	switch f.Layer() {
	case 1:
		// Layer 1 frames are counted in 4-byte slots.
		return uint32((12*bitrate*1000/rate + padding) * 4)
	case 2, 3:
		samples := uint64(f.SampleCount())
		return uint32(bitrate*1000*samples/(8*rate) + padding)
	default:
		return 0
	}
}

// Format returns the format descriptor of the frame.
func (f *Frame) Format() types.Format {
	var codec types.Codec
	switch f.Version() {
	case 1.0:
		codec = types.CodecMPEG1Audio
	case 2.0, 2.5:
		codec = types.CodecMPEG2Audio
	default:
		return types.Format{}
	}
	return types.Format{Codec: codec, Sub: uint8(f.Layer())}
}

// IsXingHeaderAvailable reports whether a Xing or Info header follows.
func (f *Frame) IsXingHeaderAvailable() bool {
	switch f.xingHeader >> 32 {
	case xingMarker, infoMarker:
		return true
	default:
		return false
	}
}

// XingFlags returns the flags of the Xing header.
func (f *Frame) XingFlags() XingFlags {
	return f.xingFlags
}

// IsXingFramefieldPresent reports whether the Xing header holds a frame count.
func (f *Frame) IsXingFramefieldPresent() bool {
	return f.IsXingHeaderAvailable() && f.xingFlags&XingFrames != 0
}

// IsXingBytesfieldPresent reports whether the Xing header holds a byte count.
func (f *Frame) IsXingBytesfieldPresent() bool {
	return f.IsXingHeaderAvailable() && f.xingFlags&XingBytes != 0
}

// IsXingTOCFieldPresent reports whether the Xing header holds a seek table.
func (f *Frame) IsXingTOCFieldPresent() bool {
	return f.IsXingHeaderAvailable() && f.xingFlags&XingTOC != 0
}

// IsXingQualityIndicatorFieldPresent reports whether the Xing header holds
// a quality indicator.
func (f *Frame) IsXingQualityIndicatorFieldPresent() bool {
	return f.IsXingHeaderAvailable() && f.xingFlags&XingQuality != 0
}

// XingFrameCount returns the number of frames of the stream.
func (f *Frame) XingFrameCount() uint32 {
	return f.xingFrames
}

// XingByteCount returns the size of the stream in bytes.
func (f *Frame) XingByteCount() uint32 {
	return f.xingBytes
}

// XingQualityIndicator returns the encoder quality, 0 (best) to 100.
func (f *Frame) XingQualityIndicator() uint32 {
	return f.xingQuality
}

// XingDuration returns the stream duration computed from the Xing frame
// count, 0 if it is not present.
func (f *Frame) XingDuration() time.Duration {
	if !f.IsXingFramefieldPresent() {
		return 0
	}
	return types.DurationFromSamples(uint64(f.xingFrames)*uint64(f.SampleCount()), f.SampleRate())
}

// versionFamily returns 0 for MPEG-1 and 1 for MPEG-2 and 2.5.
func (f *Frame) versionFamily() (int, bool) {
	switch f.Version() {
	case 1.0:
		return 0, true
	case 2.0, 2.5:
		return 1, true
	default:
		return 0, false
	}
}
