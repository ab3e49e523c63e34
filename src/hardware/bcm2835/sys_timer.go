package bcm2835

import (
	"time"

	"awaken/src/lib/mmio"
)

const (
	SysTimerControlStatus       = 0x00
	SysTimerFreeRunningLower32  = 0x04
	SysTimerFreeRunningHigher32 = 0x08
	SysTimerCompare1            = 0x10
	SysTimerCompare3            = 0x18
)

const SystemTimerMatch3 = 1 << 3
const SystemTimerMatch1 = 1 << 1

// SysTimer is the 1MHz free running system timer.
type SysTimer struct {
	Bus  mmio.Bus
	Base uintptr
}

// Now returns the counter in microseconds. The high word is read on both
// sides of the low word so a carry between the reads is not missed.
func (s SysTimer) Now() uint64 {
	hi := s.Bus.Read32(s.Base + SysTimerFreeRunningHigher32)
	lo := s.Bus.Read32(s.Base + SysTimerFreeRunningLower32)
	if again := s.Bus.Read32(s.Base + SysTimerFreeRunningHigher32); again != hi {
		hi = again
		lo = s.Bus.Read32(s.Base + SysTimerFreeRunningLower32)
	}
	return uint64(hi)<<32 | uint64(lo)
}

// Sleep busy waits for at least d.
func (s SysTimer) Sleep(d time.Duration) {
	until := s.Now() + uint64(d/time.Microsecond)
	for s.Now() < until {
	}
}
