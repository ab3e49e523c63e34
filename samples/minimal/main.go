//go:build tinygo && arm64

// minimal boots every core, says hello from each and then keeps the cores
// asleep.
package main

import (
	"runtime/volatile"

	"awaken/src/boot"
	"awaken/src/boot/exception"
	a53 "awaken/src/hardware/arm-cortex-a53"
)

var alive [4]volatile.Register32
var interrupts [4]volatile.Register32

func init() {
	boot.ComeAliveWith(comeAlive)
	boot.RunWith(run)
}

func comeAlive(core uint32) {
	alive[core].Set(1)
	if core == 0 {
		boot.Device().SetInterruptHandler(func(core uint32, _ exception.Type) {
			interrupts[core].Set(interrupts[core].Get() + 1)
		})
	}
	boot.Device().Logger().Infof("core %d is alive", core)
}

func run(core uint32) {
	// the last core to start sees every marker set
	if core == uint32(len(alive)-1) {
		boot.Device().Logger().Infof("cores alive: %d %d %d %d",
			alive[0].Get(), alive[1].Get(), alive[2].Get(), alive[3].Get())
	}
	for {
		a53.Native64{}.WaitForEvent()
	}
}

func main() {}
