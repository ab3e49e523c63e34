package bcm2835

import "awaken/src/lib/mmio"

const (
	GPIOFuncSelect0          = 0x00 // six registers, ten pins each
	GPIOOutputSet0           = 0x1C
	GPIOOutputClear0         = 0x28
	GPIOLevel0               = 0x34
	GPIOPullUpDownEnable     = 0x94
	GPIOPullUpDownEnableClk0 = 0x98
	GPIOPullUpDownEnableClk1 = 0x9C
)

type GPIOMode uint32 //3 bits wide
const GPIOInput GPIOMode = 0
const GPIOOutput GPIOMode = 1
const GPIOAltFunc5 GPIOMode = 2
const GPIOAltFunc4 GPIOMode = 3
const GPIOAltFunc0 GPIOMode = 4
const GPIOAltFunc1 GPIOMode = 5
const GPIOAltFunc2 GPIOMode = 6
const GPIOAltFunc3 GPIOMode = 7

// GPIOPinCount is the number of GPIO pins on the BCM2837.
const GPIOPinCount = 54

// GPIO is the function select and pull control block.
type GPIO struct {
	Bus  mmio.Bus
	Base uintptr
}

// Setup puts pin into mode. It reports false for a pin that does not exist.
func (g GPIO) Setup(pin uint8, mode GPIOMode) bool {
	if pin >= GPIOPinCount {
		return false
	}
	sel := mmio.Reg(g.Bus, g.Base, GPIOFuncSelect0+uintptr(pin/10)*4)
	sel.ReplaceBits(uint32(mode), 0x7, int(pin%10)*3)
	return true
}

// Mode reads back the function of pin.
func (g GPIO) Mode(pin uint8) GPIOMode {
	sel := mmio.Reg(g.Bus, g.Base, GPIOFuncSelect0+uintptr(pin/10)*4)
	return GPIOMode(sel.Field(int(pin%10)*3, 0x7))
}
