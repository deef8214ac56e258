//go:build riscv64

package sbi

import "github.com/XinbangWei/RVOS/internal/arch"

// Real is the riscv64 build's Provider: every call is an ecall into real
// firmware, register convention per §6.
type Real struct{}

func (Real) SetTimer(abs uint64) {
	arch.Ecall(ExtTimer, 0, abs, 0, 0)
}

func (Real) ClearIPI() {
	// Legacy clear-IPI has no dedicated fid under the IPI extension; the
	// sole action needed here is acknowledging via mip, which trap
	// dispatch does directly (§4.2) — SBI's IPI extension is send-only.
}

func (Real) SendIPI(mask uint64) {
	arch.Ecall(ExtIPI, 0, mask, 0, 0)
}

func (Real) ConsolePutChar(ch byte) {
	arch.Ecall(ExtLegacyPutchar, 0, uint64(ch), 0, 0)
}

func (Real) ConsoleGetChar() (byte, bool) {
	_, val := arch.Ecall(ExtLegacyGetchar, 0, 0, 0, 0)
	if int64(val) < 0 {
		return 0, false
	}
	return byte(val), true
}

func (Real) Shutdown() {
	arch.Ecall(ExtSRST, 0, 0, 0, 0)
}

func (Real) HartStart(hartID, startAddr, opaque uint64) int64 {
	errVal, _ := arch.Ecall(ExtHSM, 0, hartID, startAddr, opaque)
	return int64(errVal)
}

func (Real) HartStatus(hartID uint64) (int, int64) {
	errVal, val := arch.Ecall(ExtHSM, 2, hartID, 0, 0)
	return int(val), int64(errVal)
}

func (Real) Now() uint64 {
	return arch.Now()
}
