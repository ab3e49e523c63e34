// Package mmio is the one boundary where raw physical addresses are read and
// written. Boot slots, peripheral registers and core mailboxes all go through
// a Bus so the address arithmetic stays in reviewed code and the rest of the
// boot path can run against simulated memory on a host.
package mmio

import "github.com/usbarmory/tamago/bits"

// Width is the access size of a fixed-address location, in bits.
type Width uint8

const (
	Width32 Width = 32
	Width64 Width = 64
)

// Bus reads and writes physical memory with the exact width requested. An
// implementation must not merge, split or reorder accesses.
type Bus interface {
	Read32(addr uintptr) uint32
	Write32(addr uintptr, v uint32)
	Read64(addr uintptr) uint64
	Write64(addr uintptr, v uint64)
}

// Write stores v at addr using the given width; a 32 bit write truncates v.
func Write(b Bus, addr uintptr, w Width, v uint64) {
	if w == Width64 {
		b.Write64(addr, v)
		return
	}
	b.Write32(addr, uint32(v))
}

// Read loads addr using the given width.
func Read(b Bus, addr uintptr, w Width) uint64 {
	if w == Width64 {
		return b.Read64(addr)
	}
	return uint64(b.Read32(addr))
}

// Register32 is a 32 bit register at a fixed address.
type Register32 struct {
	Bus  Bus
	Addr uintptr
}

// Reg returns the register at base+offset.
func Reg(b Bus, base, offset uintptr) Register32 {
	return Register32{Bus: b, Addr: base + offset}
}

func (r Register32) Get() uint32 {
	return r.Bus.Read32(r.Addr)
}

func (r Register32) Set(v uint32) {
	r.Bus.Write32(r.Addr, v)
}

// SetBits ORs value into the register.
func (r Register32) SetBits(value uint32) {
	r.Set(r.Get() | value)
}

// ClearBits clears every bit of value in the register.
func (r Register32) ClearBits(value uint32) {
	r.Set(r.Get() &^ value)
}

// HasBits reports whether all bits of value are set.
func (r Register32) HasBits(value uint32) bool {
	return r.Get()&value == value
}

// ReplaceBits replaces the field (mask << pos) with value.
func (r Register32) ReplaceBits(value uint32, mask int, pos int) {
	v := r.Get()
	bits.SetN(&v, pos, mask, value)
	r.Set(v)
}

// Field extracts (reg >> pos) & mask.
func (r Register32) Field(pos int, mask int) uint32 {
	v := r.Get()
	return bits.Get(&v, pos, mask)
}
