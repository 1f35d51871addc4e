package types

// MediaType is the kind of content a track carries.
type MediaType int

const (
	// MediaTypeUnknown is a track of unknown kind.
	MediaTypeUnknown MediaType = iota
	// MediaTypeAudio is an audio track.
	MediaTypeAudio
	// MediaTypeVideo is a video track.
	MediaTypeVideo
	// MediaTypeText is a subtitle or other timed-text track.
	MediaTypeText
	// MediaTypeHint is a streaming hint track.
	MediaTypeHint
)

// Name returns the display name of the media type. Anything outside the
// known kinds is reported as "Other".
func (t MediaType) Name() string {
	switch t {
	case MediaTypeAudio:
		return "Audio"
	case MediaTypeVideo:
		return "Video"
	case MediaTypeText:
		return "Subtitle"
	case MediaTypeHint:
		return "Hint"
	default:
		return "Other"
	}
}

func (t MediaType) String() string {
	return t.Name()
}
