// Package console implements the kernel's printk (§4.8): a minimal
// formatter that writes through the firmware console one byte at a time,
// supporting only the verb subset original_source's user/printf.c and
// kernel/printk.c implement (%d %u %x %s %c %%, no floating point).
// Broken out of platform glue the way the teacher pack treats UART as its
// own device layer (rv64/uart.go, devices/serial), rather than bundled
// into the CSR/SBI plumbing.
package console

import "github.com/XinbangWei/RVOS/internal/sbi"

// Console writes formatted output through a firmware provider's console
// extension, byte by byte, matching how the original has no buffered
// line-discipline layer between printk and the UART.
type Console struct {
	provider sbi.Provider
}

// New builds a console bound to provider.
func New(provider sbi.Provider) *Console {
	return &Console{provider: provider}
}

// Write sends each byte in p through the console extension. Always
// returns len(p), nil: the SBI legacy console-putchar call has no
// failure signal to propagate (matches io.Writer's contract for a sink
// that cannot itself fail).
func (c *Console) Write(p []byte) (int, error) {
	for _, b := range p {
		c.provider.ConsolePutChar(b)
	}
	return len(p), nil
}

func (c *Console) putString(s string) {
	for i := 0; i < len(s); i++ {
		c.provider.ConsolePutChar(s[i])
	}
}

const hexDigits = "0123456789abcdef"

func (c *Console) putUint(v uint64, base int) {
	var buf [20]byte
	i := len(buf)
	if v == 0 {
		i--
		buf[i] = '0'
	}
	for v > 0 {
		i--
		buf[i] = hexDigits[v%uint64(base)]
		v /= uint64(base)
	}
	c.putString(string(buf[i:]))
}

func (c *Console) putInt(v int64) {
	if v < 0 {
		c.provider.ConsolePutChar('-')
		c.putUint(uint64(-v), 10)
		return
	}
	c.putUint(uint64(v), 10)
}

// Printf formats format per the supported verb subset and writes the
// result to the console. Unrecognized verbs are emitted literally
// (percent then the verb byte), matching the original's default case of
// silently falling through rather than erroring.
func (c *Console) Printf(format string, args ...any) {
	argi := 0
	next := func() any {
		if argi >= len(args) {
			return nil
		}
		a := args[argi]
		argi++
		return a
	}

	for i := 0; i < len(format); i++ {
		ch := format[i]
		if ch != '%' {
			c.provider.ConsolePutChar(ch)
			continue
		}
		i++
		if i >= len(format) {
			c.provider.ConsolePutChar('%')
			break
		}
		switch format[i] {
		case '%':
			c.provider.ConsolePutChar('%')
		case 'd':
			c.putInt(toInt64(next()))
		case 'u':
			c.putUint(toUint64(next()), 10)
		case 'x':
			c.putUint(toUint64(next()), 16)
		case 's':
			if s, ok := next().(string); ok {
				c.putString(s)
			}
		case 'c':
			switch v := next().(type) {
			case byte:
				c.provider.ConsolePutChar(v)
			case rune:
				c.provider.ConsolePutChar(byte(v))
			}
		default:
			c.provider.ConsolePutChar('%')
			c.provider.ConsolePutChar(format[i])
		}
	}
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case uint64:
		return int64(n)
	case uint32:
		return int64(n)
	default:
		return 0
	}
}

func toUint64(v any) uint64 {
	switch n := v.(type) {
	case uint:
		return uint64(n)
	case uint32:
		return uint64(n)
	case uint64:
		return n
	case int:
		return uint64(n)
	case int32:
		return uint64(n)
	case int64:
		return uint64(n)
	default:
		return 0
	}
}
