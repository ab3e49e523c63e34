// Package rpi holds the properties of the Raspberry Pi 3 board that the boot
// path depends on: where the peripherals are, how many cores there are and
// where the firmware parks the secondary cores.
package rpi

import (
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/lib/mmio"
)

// MemoryMappedIO is the ARM physical address of the VideoCore peripherals.
const MemoryMappedIO = uintptr(0x3F00_0000)

// CoreCount is the number of Cortex-A53 cores on the BCM2837.
const CoreCount = 4

// KernelLoadAddress is where the firmware loads and starts a 64 bit kernel;
// it is also the entry the secondary cores are sent to.
const KernelLoadAddress = uintptr(0x8_0000)

// BootSlot is the location a parked secondary core polls for its entry
// address, and the width it must be written with.
type BootSlot struct {
	Addr  uintptr
	Width mmio.Width
}

// AArch64BootSlots are the spin-table release addresses of cores 1, 2 and 3
// left by the armstub8 firmware.
var AArch64BootSlots = []BootSlot{
	{Addr: 0xE0, Width: mmio.Width64},
	{Addr: 0xE8, Width: mmio.Width64},
	{Addr: 0xF0, Width: mmio.Width64},
}

// AArch32BootSlots are mailbox 3 of cores 1, 2 and 3, polled by the 32 bit
// armstub.
var AArch32BootSlots = []BootSlot{
	{Addr: a53.MailboxWriteSet(1, 3), Width: mmio.Width32},
	{Addr: a53.MailboxWriteSet(2, 3), Width: mmio.Width32},
	{Addr: a53.MailboxWriteSet(3, 3), Width: mmio.Width32},
}

// SlotFor returns the boot slot of core in slots, which list cores 1..n.
// Core 0 never has a slot.
func SlotFor(slots []BootSlot, core uint32) (BootSlot, bool) {
	if core == 0 || int(core) > len(slots) {
		return BootSlot{}, false
	}
	return slots[core-1], true
}
