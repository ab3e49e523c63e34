//go:build tinygo && arm64

package boot

import (
	"awaken/src/boot/exception"
	"awaken/src/boot/halt"
	"awaken/src/boot/mmu"
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/bcm2835"
	"awaken/src/hardware/rpi"
	"awaken/src/lib/mmio"
	"awaken/src/lib/trust"
)

// Default assembles the 64 bit boot on the real hardware.
func Default() *Orchestrator {
	regs := a53.Native64{}
	uart := bcm2835.NewMiniUART(mmio.Physical)
	uart.Spin = regs.Nop
	log := trust.New(trust.Serialize(uart), trust.InfoMask)

	d := exception.NewDispatcher(log, halt.Park{})
	exception.Install(d)
	m := NewAArch64(regs, mmio.Physical, mmu.Tables(mmu.AArch64Layout), uint64(rpi.KernelLoadAddress), d)

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
	a53.InstallVectors(a53.LevelFromCurrentEL(a53.Native64{}.CurrentEL()))
}
