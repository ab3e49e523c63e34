//go:build tinygo && arm

package boot

import (
	"unsafe"

	"awaken/src/boot/exception"
	"awaken/src/boot/halt"
	"awaken/src/boot/mmu"
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/bcm2835"
	"awaken/src/lib/mmio"
	"awaken/src/lib/trust"
)

// entry of the boot assembly, where released cores start
//
//go:extern __boot
var bootEntry [0]byte

// Default assembles the 32 bit boot on the real hardware.
func Default() *Orchestrator {
	regs := a53.Native32{}
	uart := bcm2835.NewMiniUART(mmio.Physical)
	uart.Spin = regs.Nop
	log := trust.New(trust.Serialize(uart), trust.InfoMask)

	d := exception.NewDispatcher(log, halt.Park{})
	exception.Install(d)
	target := uint64(uintptr(unsafe.Pointer(&bootEntry)))
	m := NewAArch32(regs, mmio.Physical, mmu.Tables(mmu.AArch32Layout), target, d)

	return New(m, halt.Park{},
		WithConsole(uart),
		WithSleeper(bcm2835.SysTimer{Bus: mmio.Physical, Base: bcm2835.SysTimerBase}),
		WithInterruptManager(bcm2835.InterruptController{Bus: mmio.Physical, Base: bcm2835.InterruptControllerBase}),
		WithLogger(log),
		WithMultiCore(MultiCore),
		Registered(),
	)
}

func installVectors() {
	a53.InstallVectors(a53.EL1)
}
