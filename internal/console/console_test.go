package console

import "testing"

type recordingProvider struct {
	buf []byte
}

func (r *recordingProvider) SetTimer(abs uint64)              {}
func (r *recordingProvider) ClearIPI()                        {}
func (r *recordingProvider) SendIPI(mask uint64)               {}
func (r *recordingProvider) ConsolePutChar(ch byte)            { r.buf = append(r.buf, ch) }
func (r *recordingProvider) ConsoleGetChar() (byte, bool)      { return 0, false }
func (r *recordingProvider) Shutdown()                         {}
func (r *recordingProvider) HartStart(h, a, o uint64) int64    { return -2 }
func (r *recordingProvider) HartStatus(h uint64) (int, int64)  { return 0, -3 }
func (r *recordingProvider) Now() uint64                       { return 0 }

func TestPrintfDecimalAndHex(t *testing.T) {
	p := &recordingProvider{}
	c := New(p)
	c.Printf("n=%d x=%x", -42, uint64(255))
	if got := string(p.buf); got != "n=-42 x=ff" {
		t.Fatalf("Printf output = %q, want %q", got, "n=-42 x=ff")
	}
}

func TestPrintfStringAndChar(t *testing.T) {
	p := &recordingProvider{}
	c := New(p)
	c.Printf("%s: %c%%", "status", byte('k'))
	if got := string(p.buf); got != "status: k%" {
		t.Fatalf("Printf output = %q, want %q", got, "status: k%")
	}
}

func TestPrintfUnrecognizedVerbEmittedLiterally(t *testing.T) {
	p := &recordingProvider{}
	c := New(p)
	c.Printf("%f")
	if got := string(p.buf); got != "%f" {
		t.Fatalf("Printf output = %q, want %q", got, "%f")
	}
}

func TestWriteSendsEachByte(t *testing.T) {
	p := &recordingProvider{}
	c := New(p)
	n, err := c.Write([]byte("hi"))
	if err != nil || n != 2 {
		t.Fatalf("Write = (%d, %v), want (2, nil)", n, err)
	}
	if got := string(p.buf); got != "hi" {
		t.Fatalf("buf = %q, want %q", got, "hi")
	}
}
