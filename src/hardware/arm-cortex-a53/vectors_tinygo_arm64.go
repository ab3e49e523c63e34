//go:build tinygo && arm64

package arm_cortex_a53

import "device/arm64"

// MaskDAIF sets the four D-A-I-F interrupt masks.
func MaskDAIF() {
	arm64.Asm("msr daifset, #0xf")
}

// UnmaskDAIF clears the four D-A-I-F interrupt masks.
func UnmaskDAIF() {
	arm64.Asm("msr daifclr, #0xf")
}

// InstallVectors points VBAR at the vector table of the boot assembly. The
// vectors save state and call __exception_handler_default with the vector
// type, so the level the core runs at decides which VBAR is loaded.
func InstallVectors(el ExceptionLevel) {
	if el == EL2 {
		arm64.Asm("adr x0, vectors")
		arm64.Asm("msr vbar_el2, x0")
	} else {
		arm64.Asm("adr x0, vectors")
		arm64.Asm("msr vbar_el1, x0")
	}
	arm64.Asm("isb")
}
