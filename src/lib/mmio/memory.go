package mmio

import (
	"encoding/binary"
	"sync"
)

// Access is one recorded write on a Memory.
type Access struct {
	Addr  uintptr
	Width Width
	Value uint64
}

// Memory is a sparse, byte addressed, little endian Bus backed by host memory.
// It is safe for use by several simulated cores at once and keeps the
// ordered list of writes so tests can check what was stored where.
type Memory struct {
	mu     sync.Mutex
	bytes  map[uintptr]byte
	writes []Access
	reads  map[uintptr]func() uint32
}

func NewMemory() *Memory {
	return &Memory{
		bytes: make(map[uintptr]byte),
		reads: make(map[uintptr]func() uint32),
	}
}

// OnRead32 makes every 32 bit read of addr return f(), which models status
// registers that change underneath the reader.
func (m *Memory) OnRead32(addr uintptr, f func() uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads[addr] = f
}

func (m *Memory) load(addr uintptr, n int) []byte {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = m.bytes[addr+uintptr(i)]
	}
	return buf
}

func (m *Memory) store(addr uintptr, buf []byte) {
	for i, b := range buf {
		m.bytes[addr+uintptr(i)] = b
	}
}

func (m *Memory) Read32(addr uintptr) uint32 {
	m.mu.Lock()
	f := m.reads[addr]
	if f == nil {
		defer m.mu.Unlock()
		return binary.LittleEndian.Uint32(m.load(addr, 4))
	}
	m.mu.Unlock()
	return f()
}

func (m *Memory) Write32(addr uintptr, v uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	m.store(addr, buf[:])
	m.writes = append(m.writes, Access{Addr: addr, Width: Width32, Value: uint64(v)})
}

func (m *Memory) Read64(addr uintptr) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return binary.LittleEndian.Uint64(m.load(addr, 8))
}

func (m *Memory) Write64(addr uintptr, v uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	m.store(addr, buf[:])
	m.writes = append(m.writes, Access{Addr: addr, Width: Width64, Value: v})
}

// Writes returns a copy of every write so far, oldest first.
func (m *Memory) Writes() []Access {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Access, len(m.writes))
	copy(out, m.writes)
	return out
}

// WritesTo returns the writes that hit addr.
func (m *Memory) WritesTo(addr uintptr) []Access {
	var out []Access
	for _, a := range m.Writes() {
		if a.Addr == addr {
			out = append(out, a)
		}
	}
	return out
}
