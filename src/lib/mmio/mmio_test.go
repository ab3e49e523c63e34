package mmio

import (
	"testing"
)

func TestMixedWidths(t *testing.T) {
	m := NewMemory()
	m.Write64(0xE0, 0x1122334455667788)
	if got := m.Read32(0xE0); got != 0x55667788 {
		t.Errorf("low word: got %#x", got)
	}
	if got := m.Read32(0xE4); got != 0x11223344 {
		t.Errorf("high word: got %#x", got)
	}
	m.Write32(0xE4, 0xdeadbeef)
	if got := m.Read64(0xE0); got != 0xdeadbeef55667788 {
		t.Errorf("after 32 bit write: got %#x", got)
	}
	if got := m.Read64(0x1000); got != 0 {
		t.Errorf("untouched memory should read zero, got %#x", got)
	}
}

func TestWidthHelpers(t *testing.T) {
	m := NewMemory()
	Write(m, 0x4000009C, Width32, 0x1_0000_8000)
	if got := Read(m, 0x4000009C, Width32); got != 0x8000 {
		t.Errorf("32 bit write should truncate, got %#x", got)
	}
	Write(m, 0xE8, Width64, 0x80000)
	w := m.WritesTo(0xE8)
	if len(w) != 1 || w[0].Width != Width64 || w[0].Value != 0x80000 {
		t.Errorf("unexpected writes to 0xE8: %+v", w)
	}
}

func TestRegister32(t *testing.T) {
	m := NewMemory()
	r := Reg(m, 0x3F215000, 0x60)
	r.Set(0xF0)
	r.SetBits(0x3)
	if r.Get() != 0xF3 {
		t.Errorf("SetBits: got %#x", r.Get())
	}
	r.ClearBits(0x30)
	if r.Get() != 0xC3 {
		t.Errorf("ClearBits: got %#x", r.Get())
	}
	if !r.HasBits(0x43) || r.HasBits(0x10) {
		t.Errorf("HasBits wrong for %#x", r.Get())
	}
	r.ReplaceBits(0x5, 0x7, 3)
	if got := r.Field(3, 0x7); got != 0x5 {
		t.Errorf("ReplaceBits/Field: got %#x (reg %#x)", got, r.Get())
	}
	if got := r.Get(); got != 0xEB {
		t.Errorf("ReplaceBits touched other bits: %#x", got)
	}
}

func TestOnRead32(t *testing.T) {
	m := NewMemory()
	n := uint32(0)
	m.OnRead32(0x54, func() uint32 {
		n++
		return n
	})
	m.Read32(0x54)
	if got := m.Read32(0x54); got != 2 {
		t.Errorf("hook not consulted, got %d", got)
	}
}
