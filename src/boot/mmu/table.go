// Package mmu builds the identity translation table of the boot path and
// switches the MMU on with it. The table is written once by core 0; every
// core then points its translation registers at it.
package mmu

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyBuilt     = errors.New("translation table already built")
	ErrMisaligned       = errors.New("translation table not 4KB aligned")
	ErrUnsupportedLevel = errors.New("unsupported exception level for MMU setup")
	ErrBadLayout        = errors.New("layout does not fit the translation table")
	ErrNotBuilt         = errors.New("translation table not built")
)

// Table is the in-memory translation table: the top level (1GB entries)
// followed by one second level (2MB blocks) per top level slot. Placed on a
// 4KB boundary every array is 4KB aligned, as the walk requires.
type Table struct {
	Top    [EntriesPerTable]uint64
	Second [MaxTopSlots][EntriesPerTable]uint64
}

// SecondAddress is the physical address of second level table i when the
// table is at base.
func SecondAddress(base uintptr, i int) uint64 {
	return uint64(base) + uint64(TableSize)*uint64(1+i)
}

// fill writes every block of the layout and links the top level to them.
func (t *Table) fill(base uintptr, l Layout) {
	for i := 0; i < l.Blocks(); i++ {
		t.Second[i/EntriesPerTable][i%EntriesPerTable] = Block(l, i)
	}
	for i := 0; i < l.TopSlots; i++ {
		t.Top[i] = uint64(TableDescriptor(SecondAddress(base, i)))
	}
}

// Region is a run of consecutive blocks with the same attributes.
type Region struct {
	Start        uint64
	End          uint64 // exclusive
	Attribute    Attribute
	Shareability uint8
}

func (r Region) String() string {
	return fmt.Sprintf("[0x%08x, 0x%08x) %s sh=%d", r.Start, r.End, r.Attribute, r.Shareability)
}

// Regions walks the table at base the way the hardware would, starting at
// the top level, and coalesces what it finds. A top level entry that is not
// a table pointing into this Table, or a block that is not identity mapped,
// is an error.
func (t *Table) Regions(base uintptr, l Layout) ([]Region, error) {
	var out []Region
	for slot := 0; slot < l.TopSlots; slot++ {
		top := Descriptor(t.Top[slot])
		if !top.IsTable() {
			return nil, fmt.Errorf("top level entry %d is %s", slot, top)
		}
		second := -1
		for i := 0; i < MaxTopSlots; i++ {
			if top.Address() == SecondAddress(base, i) {
				second = i
			}
		}
		if second < 0 {
			return nil, fmt.Errorf("top level entry %d points outside the table: %#x", slot, top.Address())
		}
		for i, raw := range t.Second[second] {
			d := Descriptor(raw)
			addr := uint64(slot)*SlotSize + uint64(i)*BlockSize
			if !d.IsBlock() || d.Address() != addr {
				return nil, fmt.Errorf("block %d of slot %d is %s, want identity block at %#x", i, slot, d, addr)
			}
			n := len(out)
			if n > 0 && out[n-1].End == addr && out[n-1].Attribute == d.Attribute() &&
				out[n-1].Shareability == d.Shareability() {
				out[n-1].End += BlockSize
				continue
			}
			out = append(out, Region{
				Start:        addr,
				End:          addr + BlockSize,
				Attribute:    d.Attribute(),
				Shareability: d.Shareability(),
			})
		}
	}
	return out, nil
}
