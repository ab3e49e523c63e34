// Package cores releases the secondary cores, one after the other. Each core
// wakes the next once it is itself up, so cores come alive in id order.
package cores

import (
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/rpi"
	"awaken/src/lib/mmio"
)

// ID is a core number, 0 to rpi.CoreCount-1. Core 0 does the global setup.
type ID = uint32

// Visibility makes the slot write visible to a core that still runs with its
// caches off.
type Visibility func(cpu a53.Barriers, slot rpi.BootSlot)

// CleanInvalidateAll cleans and invalidates the whole data cache.
func CleanInvalidateAll(cpu a53.Barriers, _ rpi.BootSlot) {
	cpu.CleanInvalidateDCache()
}

// CleanSlotLine cleans only the cache line of the slot.
func CleanSlotLine(cpu a53.Barriers, slot rpi.BootSlot) {
	cpu.CleanDCacheLine(slot.Addr)
	cpu.DSB()
}

// Sequencer writes the entry address into a parked core's boot slot and
// signals it.
type Sequencer struct {
	bus        mmio.Bus
	cpu        a53.Barriers
	slots      []rpi.BootSlot
	target     uint64
	visibility Visibility
}

// New returns a sequencer for the slots of cores 1..n.
func New(bus mmio.Bus, cpu a53.Barriers, slots []rpi.BootSlot, target uint64, v Visibility) *Sequencer {
	return &Sequencer{bus: bus, cpu: cpu, slots: slots, target: target, visibility: v}
}

// AArch64 releases cores from the armstub8 spin table to target.
func AArch64(bus mmio.Bus, cpu a53.Barriers, target uint64) *Sequencer {
	return New(bus, cpu, rpi.AArch64BootSlots, target, CleanInvalidateAll)
}

// AArch32 releases cores polling mailbox 3 to target.
func AArch32(bus mmio.Bus, cpu a53.Barriers, target uint64) *Sequencer {
	return New(bus, cpu, rpi.AArch32BootSlots, target, CleanSlotLine)
}

// KickoffNext releases core this+1. It reports false, doing nothing, when
// this is the last core.
func (s *Sequencer) KickoffNext(this ID) bool {
	slot, ok := rpi.SlotFor(s.slots, this+1)
	if !ok {
		return false
	}
	// everything this core wrote, the translation table included, must
	// land before the next core can see its entry address
	s.cpu.DSB()
	mmio.Write(s.bus, slot.Addr, slot.Width, s.target)
	if s.visibility != nil {
		s.visibility(s.cpu, slot)
	}
	s.cpu.SEV()
	return true
}

// Released reports whether core's slot holds the entry address.
func (s *Sequencer) Released(core ID) bool {
	slot, ok := rpi.SlotFor(s.slots, core)
	if !ok {
		return false
	}
	return mmio.Read(s.bus, slot.Addr, slot.Width) == s.target&widthMask(slot.Width)
}

// Target is the address released cores start at.
func (s *Sequencer) Target() uint64 { return s.target }

func widthMask(w mmio.Width) uint64 {
	if w == mmio.Width64 {
		return ^uint64(0)
	}
	return 0xFFFF_FFFF
}
