package trust

import (
	"io"
	"runtime"
	"sync/atomic"
)

// SerialWriter passes each Write to w whole, so lines logged by cores
// running at the same time do not interleave. The lock is a spin lock on an
// exclusive load/store pair; on the device it needs the MMU on.
type SerialWriter struct {
	w    io.Writer
	busy atomic.Bool
}

func Serialize(w io.Writer) *SerialWriter {
	return &SerialWriter{w: w}
}

func (s *SerialWriter) Write(p []byte) (int, error) {
	for !s.busy.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
	defer s.busy.Store(false)
	return s.w.Write(p)
}
