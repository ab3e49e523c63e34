package mmu

import "fmt"

// Builder owns the table and its initialize-once token. Only core 0 calls
// Build, before any other core is released, so the token needs no atomics;
// atomics are not usable before the MMU is on anyway.
type Builder struct {
	table  *Table
	base   uintptr
	layout Layout
	built  bool
}

// NewBuilder returns a builder for t at physical address base.
func NewBuilder(t *Table, base uintptr, l Layout) *Builder {
	return &Builder{table: t, base: base, layout: l}
}

// Build fills the table. Only the first call writes.
func (b *Builder) Build() error {
	if b.built {
		return ErrAlreadyBuilt
	}
	if b.base&(TableSize-1) != 0 {
		return fmt.Errorf("%w: %#x", ErrMisaligned, b.base)
	}
	if b.layout.TopSlots < 1 || b.layout.TopSlots > MaxTopSlots {
		return fmt.Errorf("%w: %d top level slots", ErrBadLayout, b.layout.TopSlots)
	}
	b.table.fill(b.base, b.layout)
	b.built = true
	return nil
}

func (b *Builder) Built() bool    { return b.built }
func (b *Builder) Base() uintptr  { return b.base }
func (b *Builder) Layout() Layout { return b.layout }
func (b *Builder) Table() *Table  { return b.table }

// Regions is the region map of the built table.
func (b *Builder) Regions() ([]Region, error) {
	if !b.built {
		return nil, ErrNotBuilt
	}
	return b.table.Regions(b.base, b.layout)
}
