package boot

import (
	"awaken/src/boot/cores"
	"awaken/src/boot/exception"
	"awaken/src/boot/mmu"
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/lib/mmio"
)

// Variant is what differs between the 64 and 32 bit boot: how the MMU is
// brought up, where the parked cores wait and how exceptions arrive.
type Variant interface {
	Name() string
	InitializeMMU(core uint32) error
	KickoffNext(core uint32) bool
	Handle(core uint32, r exception.Record) exception.Classification
	SetInterruptHandler(isr exception.ISR)
}

type mmuSetup interface {
	Initialize(core uint32) error
	Disable() error
}

// Machine is a Variant assembled from the boot components.
type Machine struct {
	name       string
	mmu        mmuSetup
	tables     *mmu.Builder
	sequencer  *cores.Sequencer
	dispatcher *exception.Dispatcher
}

// NewAArch64 assembles the 64 bit boot. Secondary cores are sent to target.
func NewAArch64(regs a53.SystemRegisters64, bus mmio.Bus, tables *mmu.Builder, target uint64, d *exception.Dispatcher) *Machine {
	return &Machine{
		name:       "AArch64",
		mmu:        &mmu.AArch64{Regs: regs, Tables: tables},
		tables:     tables,
		sequencer:  cores.AArch64(bus, regs, target),
		dispatcher: d,
	}
}

// NewAArch32 assembles the 32 bit boot.
func NewAArch32(regs a53.SystemRegisters32, bus mmio.Bus, tables *mmu.Builder, target uint64, d *exception.Dispatcher) *Machine {
	return &Machine{
		name:       "AArch32",
		mmu:        &mmu.AArch32{Regs: regs, Tables: tables},
		tables:     tables,
		sequencer:  cores.AArch32(bus, regs, target),
		dispatcher: d,
	}
}

func (m *Machine) Name() string { return m.name }

func (m *Machine) InitializeMMU(core uint32) error { return m.mmu.Initialize(core) }

// DisableMMU turns translation and caches off on the calling core.
func (m *Machine) DisableMMU() error { return m.mmu.Disable() }

func (m *Machine) KickoffNext(core uint32) bool { return m.sequencer.KickoffNext(core) }

// Released reports whether core has been sent its entry address.
func (m *Machine) Released(core uint32) bool { return m.sequencer.Released(core) }

func (m *Machine) Handle(core uint32, r exception.Record) exception.Classification {
	return m.dispatcher.Handle(core, r)
}

func (m *Machine) SetInterruptHandler(isr exception.ISR) { m.dispatcher.SetInterruptHandler(isr) }

func (m *Machine) Tables() *mmu.Builder              { return m.tables }
func (m *Machine) Dispatcher() *exception.Dispatcher { return m.dispatcher }
