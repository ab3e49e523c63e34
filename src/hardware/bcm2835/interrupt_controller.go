package bcm2835

import (
	"awaken/src/boot/exception"
	"awaken/src/lib/mmio"
)

const (
	IRQBasicPending  = 0x00
	IRQPending1      = 0x04
	IRQPending2      = 0x08
	FIQControl       = 0x0C
	EnableIRQs1      = 0x10
	EnableIRQs2      = 0x14
	EnableBasicIRQs  = 0x18
	DisableIRQs1     = 0x1C
	DisableIRQs2     = 0x20
	DisableBasicIRQs = 0x24
)

// for the interrupt numbers for use with interrupt controller
const AuxInterrupt = 1 << 29

const SystemTimerIRQ1 = 1 << 1
const SystemTimerIRQ3 = 1 << 3

const BasicArmTimerIRQ = 1 << 0

// InterruptController is the legacy ARM interrupt controller. The boot path
// only brings it to a known state; drivers enable their own lines later.
// Handler, if set, gets the first bank's pending sources of every interrupt.
type InterruptController struct {
	Bus     mmio.Bus
	Base    uintptr
	Handler func(core uint32, pending1 uint32)
}

// Initialize disables every interrupt source and FIQ routing, then registers
// Service as the interrupt handler if register is not nil.
func (ic InterruptController) Initialize(register func(exception.ISR)) error {
	ic.Bus.Write32(ic.Base+DisableIRQs1, 0xFFFF_FFFF)
	ic.Bus.Write32(ic.Base+DisableIRQs2, 0xFFFF_FFFF)
	ic.Bus.Write32(ic.Base+DisableBasicIRQs, 0xFFFF_FFFF)
	ic.Bus.Write32(ic.Base+FIQControl, 0)
	if register != nil {
		register(ic.Service)
	}
	return nil
}

// Service reads the pending sources and passes them to Handler.
func (ic InterruptController) Service(core uint32, _ exception.Type) {
	p := ic.Pending1()
	if p == 0 || ic.Handler == nil {
		return
	}
	ic.Handler(core, p)
}

// Enable1 enables the given sources of the first GPU interrupt bank.
func (ic InterruptController) Enable1(bits uint32) {
	ic.Bus.Write32(ic.Base+EnableIRQs1, bits)
}

// Pending1 reports the pending sources of the first GPU interrupt bank.
func (ic InterruptController) Pending1() uint32 {
	return ic.Bus.Read32(ic.Base + IRQPending1)
}
