package binary

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"strings"
	"testing"
)

// failingSeeker fails every operation, mimicking an unreadable stream.
type failingSeeker struct{}

var errBroken = errors.New("device unplugged")

func (failingSeeker) Read([]byte) (int, error)       { return 0, errBroken }
func (failingSeeker) Seek(int64, int) (int64, error) { return 0, errBroken }

func TestReader_ReadFull_Success(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02, 0x03, 0x04}), "test.mp3")

	buf := make([]byte, 2)
	if err := r.ReadFull(buf, "test read"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf[0] != 0x01 || buf[1] != 0x02 {
		t.Errorf("expected [0x01, 0x02], got [0x%02x, 0x%02x]", buf[0], buf[1])
	}
	if r.Offset() != 2 {
		t.Errorf("expected offset 2, got %d", r.Offset())
	}
}

func TestReader_ReadFull_ShortRead(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01, 0x02}), "test.mp3")

	buf := make([]byte, 4)
	err := r.ReadFull(buf, "frame header")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected *IOError, got %T", err)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected error to wrap io.ErrUnexpectedEOF: %v", err)
	}

	// Check error message contains useful info
	errMsg := err.Error()
	if !strings.Contains(errMsg, "test.mp3") {
		t.Errorf("error should contain filename: %v", errMsg)
	}
	if !strings.Contains(errMsg, "frame header") {
		t.Errorf("error should contain context: %v", errMsg)
	}
}

func TestReader_BrokenStream(t *testing.T) {
	r := NewReader(failingSeeker{}, "")

	if _, err := r.ReadUint32BE("word"); !errors.Is(err, errBroken) {
		t.Errorf("ReadUint32BE error = %v, want wrapped errBroken", err)
	}
	if err := r.SeekTo(10, "start"); !errors.Is(err, errBroken) {
		t.Errorf("SeekTo error = %v, want wrapped errBroken", err)
	}
	if err := r.Skip(4, "gap"); !errors.Is(err, errBroken) {
		t.Errorf("Skip error = %v, want wrapped errBroken", err)
	}
	if _, err := r.Size(); !errors.Is(err, errBroken) {
		t.Errorf("Size error = %v, want wrapped errBroken", err)
	}
}

func TestReader_SeekAndSkip(t *testing.T) {
	data := []byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66, 0x77}
	r := NewReader(bytes.NewReader(data), "test")

	if err := r.SeekTo(3, "seek"); err != nil {
		t.Fatal(err)
	}
	v, err := ReadBE[uint8](r, "byte")
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x33 {
		t.Errorf("expected 0x33, got 0x%02x", v)
	}

	if err := r.Skip(2, "skip"); err != nil {
		t.Fatal(err)
	}
	v, err = ReadBE[uint8](r, "byte")
	if err != nil {
		t.Fatal(err)
	}
	if v != 0x66 {
		t.Errorf("expected 0x66, got 0x%02x", v)
	}

	if err := r.SeekTo(-1, "negative"); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestReader_Size_RestoresPosition(t *testing.T) {
	r := NewReader(bytes.NewReader(make([]byte, 100)), "test")
	if err := r.SeekTo(40, "seek"); err != nil {
		t.Fatal(err)
	}

	size, err := r.Size()
	if err != nil {
		t.Fatal(err)
	}
	if size != 100 {
		t.Errorf("expected size 100, got %d", size)
	}
	if r.Offset() != 40 {
		t.Errorf("expected position 40 after Size, got %d", r.Offset())
	}
}

func TestReader_NewReader_PicksUpPosition(t *testing.T) {
	br := bytes.NewReader(make([]byte, 16))
	if _, err := br.Seek(5, io.SeekStart); err != nil {
		t.Fatal(err)
	}
	r := NewReader(br, "test")
	if r.Offset() != 5 {
		t.Errorf("expected offset 5, got %d", r.Offset())
	}
}

func TestReader_ReadUint32BE_Uint64BE(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint32(0xFFFB9064))
	binary.Write(buf, binary.BigEndian, uint64(0x58696E670000000F))

	r := NewReader(bytes.NewReader(buf.Bytes()), "test")

	w32, err := r.ReadUint32BE("control word")
	if err != nil {
		t.Fatal(err)
	}
	if w32 != 0xFFFB9064 {
		t.Errorf("expected 0xFFFB9064, got 0x%08X", w32)
	}

	w64, err := r.ReadUint64BE("xing word")
	if err != nil {
		t.Fatal(err)
	}
	if w64 != 0x58696E670000000F {
		t.Errorf("expected 0x58696E670000000F, got 0x%016X", w64)
	}
}

func TestReader_ReadString(t *testing.T) {
	r := NewReader(strings.NewReader("fLaCrest"), "test")

	s, err := r.ReadString(4, "magic")
	if err != nil {
		t.Fatal(err)
	}
	if s != "fLaC" {
		t.Errorf("expected fLaC, got %q", s)
	}

	if _, err := r.ReadBytes(-1, "negative"); err == nil {
		t.Error("expected error for negative length")
	}
}

func TestReader_ReadBytesAt(t *testing.T) {
	r := NewReader(strings.NewReader("ftypisom"), "test")

	b, err := r.ReadBytesAt(4, 4, "brand")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "isom" {
		t.Errorf("expected isom, got %q", b)
	}
	if r.Offset() != 8 {
		t.Errorf("expected offset 8, got %d", r.Offset())
	}

	var ioErr *IOError
	if _, err := r.ReadBytesAt(6, 4, "past end"); !errors.As(err, &ioErr) {
		t.Errorf("expected *IOError, got %T", err)
	}
}

func TestChainReader(t *testing.T) {
	buf := &bytes.Buffer{}
	binary.Write(buf, binary.BigEndian, uint16(0x1234))
	binary.Write(buf, binary.LittleEndian, uint32(0xCAFEBABE))
	buf.WriteString("abcd")

	cr := NewChainReader(NewReader(bytes.NewReader(buf.Bytes()), "test"))
	a := ReadChained[uint16](cr, "a")
	b := ReadChainedLE[uint32](cr, "b")
	s := cr.String(4, "s")

	if err := cr.Error(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a != 0x1234 || b != 0xCAFEBABE || s != "abcd" {
		t.Errorf("got a=0x%04x b=0x%08x s=%q", a, b, s)
	}

	// Reads past the end stick the first error and return zero values.
	c := ReadChained[uint64](cr, "past end")
	cr.Skip(1, "skip")
	d := cr.String(2, "after failure")
	if cr.Error() == nil {
		t.Fatal("expected accumulated error")
	}
	if c != 0 || d != "" {
		t.Errorf("expected zero values after failure, got c=%d d=%q", c, d)
	}
	if !strings.Contains(cr.Error().Error(), "past end") {
		t.Errorf("expected first failure to be kept, got %v", cr.Error())
	}
}
