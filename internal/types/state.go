package types

// ParseStatus is the outcome of the most recent header parse.
type ParseStatus int

const (
	// StatusUnparsed means no parse has completed yet.
	StatusUnparsed ParseStatus = iota
	// StatusValid means the last parse completed cleanly.
	StatusValid
	// StatusInvalid means the last parse failed.
	StatusInvalid
)

func (s ParseStatus) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unparsed"
	}
}

// ParseState records the result of the most recent parse attempt. Err is
// set only when Status is StatusInvalid.
type ParseState struct {
	Err    error
	Status ParseStatus
}

// Valid reports whether header fields can be trusted.
func (s ParseState) Valid() bool {
	return s.Status == StatusValid
}

// Kind classifies the failure, KindNone unless the state is invalid.
func (s ParseState) Kind() ErrorKind {
	if s.Status != StatusInvalid {
		return KindNone
	}
	return KindOf(s.Err)
}

func (s ParseState) String() string {
	if s.Status == StatusInvalid && s.Err != nil {
		return "invalid: " + s.Err.Error()
	}
	return s.Status.String()
}
