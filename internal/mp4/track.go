package mp4

import (
	"bytes"
	"strings"
	"time"

	"github.com/simonhull/mediatrack/internal/binary"
	"github.com/simonhull/mediatrack/internal/registry"
	"github.com/simonhull/mediatrack/internal/types"
)

// tkhd flags
const (
	trackEnabled   = 0x1
	trackInMovie   = 0x2
	trackInPreview = 0x4
)

// maxSampleTable caps the stsz entries summed for the media size.
const maxSampleTable = 1 << 22

// Decoder is the MP4 track variant. The start offset must point at a trak
// atom.
type Decoder struct{}

// ParseHeader implements types.Decoder.
func (d *Decoder) ParseHeader(r *binary.Reader, m *types.Metadata) error {
	trak, err := readAtomHeader(r, r.Offset())
	if err != nil {
		return err
	}
	if trak.Type != "trak" {
		return types.NewInvalidDataError(r, trak.Offset, "expected 'trak' atom, found '%s'", trak.Type)
	}

	atoms, err := children(r, trak.DataOffset(), trak.End())
	if err != nil {
		return err
	}
	tkhd := find(atoms, "tkhd")
	if tkhd == nil {
		return types.NewInvalidDataError(r, trak.Offset, "track has no 'tkhd' atom")
	}
	if err := parseTkhd(r, tkhd, m); err != nil {
		return err
	}

	mdia := find(atoms, "mdia")
	if mdia == nil {
		return types.NewInvalidDataError(r, trak.Offset, "track has no 'mdia' atom")
	}
	return parseMdia(r, mdia, m)
}

// parseTkhd parses the track header for the id, flags and presentation size.
func parseTkhd(r *binary.Reader, tkhd *Atom, m *types.Metadata) error {
	if err := r.SeekTo(tkhd.DataOffset(), "tkhd"); err != nil {
		return err
	}
	cr := binary.NewChainReader(r)
	version := binary.ReadChained[uint8](cr, "tkhd version")
	flags := uint32(binary.ReadChained[uint8](cr, "tkhd flags"))<<16 |
		uint32(binary.ReadChained[uint16](cr, "tkhd flags"))

	var trackID uint32
	if version == 1 {
		cr.Skip(16, "tkhd times")
		trackID = binary.ReadChained[uint32](cr, "tkhd track id")
		cr.Skip(4+8, "tkhd duration")
	} else {
		cr.Skip(8, "tkhd times")
		trackID = binary.ReadChained[uint32](cr, "tkhd track id")
		cr.Skip(4+4, "tkhd duration")
	}
	// reserved, layer, alternate group, volume, reserved, matrix
	cr.Skip(8+2+2+2+2+36, "tkhd matrix")
	width := binary.ReadChained[uint32](cr, "tkhd width")
	height := binary.ReadChained[uint32](cr, "tkhd height")
	if err := cr.Error(); err != nil {
		return err
	}

	m.ID = uint64(trackID)
	m.TrackNumber = trackID
	m.Enabled = flags&trackEnabled != 0
	m.UsedInPresentation = flags&trackInMovie != 0
	m.UsedWhenPreviewing = flags&trackInPreview != 0
	// 16.16 fixed point
	m.Width = width >> 16
	m.Height = height >> 16
	return nil
}

func parseMdia(r *binary.Reader, mdia *Atom, m *types.Metadata) error {
	atoms, err := children(r, mdia.DataOffset(), mdia.End())
	if err != nil {
		return err
	}

	mdhd := find(atoms, "mdhd")
	if mdhd == nil {
		return types.NewInvalidDataError(r, mdia.Offset, "media has no 'mdhd' atom")
	}
	if err := parseMdhd(r, mdhd, m); err != nil {
		return err
	}

	if hdlr := find(atoms, "hdlr"); hdlr != nil {
		if err := parseHdlr(r, hdlr, m); err != nil {
			return err
		}
	} else {
		m.AddWarning("technical", mdia.Offset, "media has no 'hdlr' atom")
	}

	minf := find(atoms, "minf")
	if minf == nil {
		m.AddWarning("technical", mdia.Offset, "media has no 'minf' atom")
		return nil
	}
	stbl, err := findPath(r, minf, "stbl")
	if err != nil {
		return err
	}
	if stbl == nil {
		m.AddWarning("technical", minf.Offset, "media has no sample table")
		return nil
	}
	tables, err := children(r, stbl.DataOffset(), stbl.End())
	if err != nil {
		return err
	}

	if stsd := find(tables, "stsd"); stsd != nil {
		if err := parseStsd(r, stsd, m); err != nil {
			return err
		}
	}
	if stsz := find(tables, "stsz"); stsz != nil {
		if err := parseStsz(r, stsz, m); err != nil {
			return err
		}
	}

	if m.Bitrate == 0 {
		m.Bitrate = types.BitrateKbps(m.Size, m.Duration)
	}
	if m.MediaType == types.MediaTypeVideo && m.Duration > 0 && m.SampleCount > 0 {
		m.FrameRate = float64(m.SampleCount) / m.Duration.Seconds()
	}
	return nil
}

// parseMdhd parses the media header for time scale, duration and language.
func parseMdhd(r *binary.Reader, mdhd *Atom, m *types.Metadata) error {
	if err := r.SeekTo(mdhd.DataOffset(), "mdhd"); err != nil {
		return err
	}
	cr := binary.NewChainReader(r)
	version := binary.ReadChained[uint8](cr, "mdhd version")
	cr.Skip(3, "mdhd flags")

	var timescale uint32
	var duration uint64
	if version == 1 {
		cr.Skip(16, "mdhd times")
		timescale = binary.ReadChained[uint32](cr, "mdhd timescale")
		duration = binary.ReadChained[uint64](cr, "mdhd duration")
	} else {
		cr.Skip(8, "mdhd times")
		timescale = binary.ReadChained[uint32](cr, "mdhd timescale")
		duration = uint64(binary.ReadChained[uint32](cr, "mdhd duration"))
	}
	language := binary.ReadChained[uint16](cr, "mdhd language")
	if err := cr.Error(); err != nil {
		return err
	}

	m.TimeScale = timescale
	if timescale > 0 && duration != ^uint64(0) && duration != 0xFFFFFFFF {
		m.Duration = time.Duration(duration / uint64(timescale) * uint64(time.Second))
		m.Duration += time.Duration(duration % uint64(timescale) * uint64(time.Second) / uint64(timescale))
	}
	m.Language = decodeLanguage(language)
	return nil
}

// parseHdlr parses the handler reference for the media type and name.
func parseHdlr(r *binary.Reader, hdlr *Atom, m *types.Metadata) error {
	if hdlr.DataSize() < 24 {
		return types.NewInvalidDataError(r, hdlr.Offset, "hdlr atom too short")
	}
	data, err := r.ReadBytesAt(hdlr.DataOffset(), int(min(hdlr.DataSize(), 1024)), "hdlr")
	if err != nil {
		return err
	}

	// version/flags (4), pre_defined (4), handler_type (4), reserved (12)
	handler := string(data[8:12])
	if mt, ok := handlerMediaTypes[handler]; ok {
		m.MediaType = mt
	} else {
		m.MediaType = types.MediaTypeUnknown
	}

	name := data[24:]
	// QuickTime writes a counted string.
	if len(name) > 0 && int(name[0]) == len(name)-1 {
		name = name[1:]
	}
	if i := bytes.IndexByte(name, 0); i >= 0 {
		name = name[:i]
	}
	m.Name = strings.TrimSpace(string(name))
	return nil
}

// parseStsd parses the first sample description for the codec and its
// audio or visual parameters.
func parseStsd(r *binary.Reader, stsd *Atom, m *types.Metadata) error {
	if err := r.SeekTo(stsd.DataOffset(), "stsd"); err != nil {
		return err
	}
	cr := binary.NewChainReader(r)
	cr.Skip(4, "stsd version")
	count := binary.ReadChained[uint32](cr, "stsd entry count")
	if err := cr.Error(); err != nil {
		return err
	}
	if count == 0 {
		m.AddWarning("technical", stsd.Offset, "sample description is empty")
		return nil
	}

	entry, err := readAtomHeader(r, stsd.DataOffset()+8)
	if err != nil {
		return err
	}
	if entry.End() > stsd.End() {
		return types.NewInvalidDataError(r, entry.Offset, "sample entry overruns 'stsd'")
	}

	fourCC := entry.Type
	if fourCC == "enca" || fourCC == "encv" {
		m.Encrypted = true
	}
	applyFourCC(fourCC, m)

	var childStart int64
	switch m.MediaType {
	case types.MediaTypeAudio:
		childStart, err = parseAudioEntry(r, entry, m)
	case types.MediaTypeVideo:
		childStart, err = parseVisualEntry(r, entry, m)
	default:
		return nil
	}
	if err != nil {
		return err
	}
	return parseEntryChildren(r, entry, childStart, m)
}

// parseAudioEntry reads the fixed fields of an audio sample entry and
// returns where its child atoms start.
func parseAudioEntry(r *binary.Reader, entry *Atom, m *types.Metadata) (int64, error) {
	if err := r.SeekTo(entry.DataOffset(), "audio sample entry"); err != nil {
		return 0, err
	}
	cr := binary.NewChainReader(r)
	// reserved (6), data reference index (2)
	cr.Skip(8, "sample entry header")
	version := binary.ReadChained[uint16](cr, "sound version")
	cr.Skip(6, "sound revision and vendor")
	channels := binary.ReadChained[uint16](cr, "channel count")
	sampleSize := binary.ReadChained[uint16](cr, "sample size")
	cr.Skip(4, "compression id and packet size")
	sampleRate := binary.ReadChained[uint32](cr, "sample rate")
	if err := cr.Error(); err != nil {
		return 0, err
	}

	m.ChannelCount = channels
	m.BitsPerSample = sampleSize
	// 16.16 fixed point
	m.SampleRate = sampleRate >> 16

	childStart := r.Offset()
	switch version {
	case 1:
		childStart += 16
	case 2:
		childStart += 36
	}
	return childStart, nil
}

// parseVisualEntry reads the fixed fields of a visual sample entry and
// returns where its child atoms start.
func parseVisualEntry(r *binary.Reader, entry *Atom, m *types.Metadata) (int64, error) {
	if err := r.SeekTo(entry.DataOffset(), "visual sample entry"); err != nil {
		return 0, err
	}
	cr := binary.NewChainReader(r)
	// reserved (6), data reference index (2), pre_defined, reserved, pre_defined
	cr.Skip(8+2+2+12, "sample entry header")
	width := binary.ReadChained[uint16](cr, "width")
	height := binary.ReadChained[uint16](cr, "height")
	// resolutions, reserved, frame count, compressor name
	cr.Skip(4+4+4+2+32, "visual sample entry")
	depth := binary.ReadChained[uint16](cr, "depth")
	cr.Skip(2, "pre_defined")
	if err := cr.Error(); err != nil {
		return 0, err
	}

	if width > 0 && height > 0 {
		m.Width = uint32(width)
		m.Height = uint32(height)
	}
	m.Depth = depth
	return r.Offset(), nil
}

// parseEntryChildren handles the child atoms of a sample entry: the
// decoder configuration and, for encrypted entries, the original format.
func parseEntryChildren(r *binary.Reader, entry *Atom, start int64, m *types.Metadata) error {
	atoms, err := children(r, start, entry.End())
	if err != nil {
		// Some writers pad sample entries with junk; the fixed fields are
		// already decoded.
		if types.KindOf(err) == types.KindInvalidData {
			m.AddWarning("technical", start, "unreadable sample entry extensions: %v", err)
			return nil
		}
		return err
	}

	if sinf := find(atoms, "sinf"); sinf != nil {
		frma, err := findPath(r, sinf, "frma")
		if err != nil {
			return err
		}
		if frma != nil && frma.DataSize() >= 4 {
			original, err := r.ReadBytesAt(frma.DataOffset(), 4, "original format")
			if err != nil {
				return err
			}
			applyFourCC(string(original), m)
		}
	}

	if esds := find(atoms, "esds"); esds != nil && esds.DataSize() > 4 {
		data, err := r.ReadBytesAt(esds.DataOffset()+4, int(min(esds.DataSize()-4, 512)), "esds")
		if err != nil {
			return err
		}
		objectType, maxBitrate, avgBitrate, ok := parseDecoderConfig(data)
		if ok {
			if f, known := objectTypeFormats[objectType]; known {
				m.Format = f
			}
			m.MaxBitrate = float64(maxBitrate) / 1000
			m.Bitrate = float64(avgBitrate) / 1000
		}
	}
	return nil
}

// parseStsz parses the sample size table for the sample count and the
// total media size.
func parseStsz(r *binary.Reader, stsz *Atom, m *types.Metadata) error {
	if stsz.DataSize() < 12 {
		return types.NewInvalidDataError(r, stsz.Offset, "stsz atom too short")
	}
	if err := r.SeekTo(stsz.DataOffset(), "stsz"); err != nil {
		return err
	}
	cr := binary.NewChainReader(r)
	cr.Skip(4, "stsz version")
	sampleSize := binary.ReadChained[uint32](cr, "stsz sample size")
	count := binary.ReadChained[uint32](cr, "stsz sample count")
	if err := cr.Error(); err != nil {
		return err
	}

	m.SampleCount = uint64(count)
	if sampleSize != 0 {
		m.Size = uint64(sampleSize) * uint64(count)
		return nil
	}
	if count > maxSampleTable || uint64(count)*4 > stsz.DataSize()-12 {
		m.AddWarning("technical", stsz.Offset, "sample size table truncated or too large")
		return nil
	}

	table, err := r.ReadBytes(int(count)*4, "stsz entries")
	if err != nil {
		return err
	}
	var total uint64
	for i := 0; i < len(table); i += 4 {
		total += uint64(binary.Decode[uint32](table[i:], binary.BigEndian))
	}
	m.Size = total
	return nil
}

func init() {
	registry.Register(types.ContainerMP4, func() types.Decoder { return &Decoder{} })
}
