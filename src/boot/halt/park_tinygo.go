//go:build tinygo && (arm64 || arm)

package halt

import a53 "awaken/src/hardware/arm-cortex-a53"

// Park is the device Halter: interrupts are masked and the core sleeps in
// wfe forever.
type Park struct{}

func (Park) Halt(uint32, Reason) {
	a53.MaskDAIF()
	for {
		a53.WaitForEvent()
	}
}
