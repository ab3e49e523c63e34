// Package bcm2835 drives the few VideoCore peripherals the boot path needs:
// the mini UART for the console, the system timer for delays and the legacy
// interrupt controller. Registers are reached through an mmio.Bus.
package bcm2835

import "awaken/src/hardware/rpi"

// offsets from rpi.MemoryMappedIO
const AuxOffset = 0x0021_5000
const GPIOOffset = 0x0020_0000
const SysTimerOffset = 0x3000
const InterruptControllerOffset = 0xB200

const AuxBase = rpi.MemoryMappedIO + AuxOffset
const GPIOBase = rpi.MemoryMappedIO + GPIOOffset
const SysTimerBase = rpi.MemoryMappedIO + SysTimerOffset
const InterruptControllerBase = rpi.MemoryMappedIO + InterruptControllerOffset
