package types

import (
	"bytes"
	"errors"
	"testing"

	"github.com/simonhull/mediatrack/internal/binary"
)

func TestParseHeader_FreshDefaults(t *testing.T) {
	var seenOffset int64 = -1
	dec := DecoderFunc(func(r *binary.Reader, m *Metadata) error {
		seenOffset = r.Offset()
		if !m.Enabled || m.SampleRate != 0 {
			t.Errorf("decoder received non-default metadata: %+v", m)
		}
		m.SampleRate = 44100
		return nil
	})

	r := binary.NewReader(bytes.NewReader(make([]byte, 16)), "mem")
	m, err := ParseHeader(dec, r, 8)
	if err != nil {
		t.Fatalf("ParseHeader() error = %v", err)
	}
	if seenOffset != 8 {
		t.Errorf("decoder started at %d, want 8", seenOffset)
	}
	if m.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100", m.SampleRate)
	}

	// A second run must not see the first run's values.
	if _, err := ParseHeader(dec, r, 0); err != nil {
		t.Fatalf("second ParseHeader() error = %v", err)
	}
}

func TestParseHeader_DecoderError(t *testing.T) {
	want := &InvalidDataError{Reason: "nope"}
	dec := DecoderFunc(func(*binary.Reader, *Metadata) error { return want })

	m, err := ParseHeader(dec, binary.NewReader(bytes.NewReader(nil), ""), 0)
	if m != nil {
		t.Errorf("metadata = %+v, want nil", m)
	}
	if !errors.Is(err, want) {
		t.Errorf("error = %v, want %v", err, want)
	}
}

func TestParseHeader_NegativeOffset(t *testing.T) {
	called := false
	dec := DecoderFunc(func(*binary.Reader, *Metadata) error {
		called = true
		return nil
	})

	_, err := ParseHeader(dec, binary.NewReader(bytes.NewReader(nil), ""), -1)
	if KindOf(err) != KindTransport {
		t.Errorf("KindOf(err) = %v, want transport", KindOf(err))
	}
	if called {
		t.Error("decoder ran after failed seek")
	}
}
