// Package serial implements the console device the sim build's SBI
// firmware simulator exposes putchar/getchar through (§4.1's UART driver
// is an external collaborator; this models it only on the firmware side
// of the boundary so internal/sbi has something real to call).
//
// Register/status-bit naming is adapted from a 16550-compatible MMIO UART
// model (see DESIGN.md); this version is driven purely by byte-at-a-time
// Put/Get calls rather than raw MMIO reads/writes, since SBI's console
// extension — not the kernel — is what ever touches the UART in this
// design (§1: UART drivers are an external collaborator).
package serial

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"golang.org/x/term"
	"golang.org/x/time/rate"
)

// LSR-style status bits, kept for parity with a real 16550's line status
// register even though sim mode never exposes raw registers.
const (
	LSRDataReady = 1 << 0
	LSRTHREmpty  = 1 << 5
)

// UART is a minimal byte-oriented console device. Output is rate limited
// the way a real 16550 is bound by its baud rate, so a spinning task's
// writes can't flood the host terminal the sim build runs under.
type UART struct {
	mu   sync.Mutex
	out  io.Writer
	in   *bufio.Reader
	lim  *rate.Limiter
	lsr  byte
}

// DefaultBaudRate approximates a 115200 baud 16550 in bytes/sec.
const DefaultBaudRate = 11520

// New creates a UART writing to out and reading from in. in may be nil for
// an output-only console (e.g. in tests).
func New(out io.Writer, in io.Reader) *UART {
	u := &UART{
		out: out,
		lim: rate.NewLimiter(rate.Limit(DefaultBaudRate), DefaultBaudRate/10+1),
		lsr: LSRTHREmpty,
	}
	if in != nil {
		u.in = bufio.NewReader(in)
	}
	return u
}

// PutChar writes one byte, blocking only as long as the rate limiter
// requires (never indefinitely — Wait's context is Background).
func (u *UART) PutChar(ch byte) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_ = u.lim.WaitN(context.Background(), 1)
	_, _ = u.out.Write([]byte{ch})
}

// GetChar returns the next buffered byte and true, or (0, false) if none
// is available — matching SBI legacy getchar's "-1 if no data" contract.
func (u *UART) GetChar() (byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.in == nil || u.in.Buffered() == 0 {
		return 0, false
	}
	b, err := u.in.ReadByte()
	if err != nil {
		return 0, false
	}
	return b, true
}

// EnableRawInput puts fd in raw mode so GetChar sees individual
// keystrokes as a real UART's console-getchar would, rather than a whole
// buffered line at a time. Returns a restore func, or an error if fd is
// not a terminal (e.g. piped input under a test runner).
func EnableRawInput(fd int) (restore func(), err error) {
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("serial: fd %d is not a terminal", fd)
	}
	old, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() { _ = term.Restore(fd, old) }, nil
}
