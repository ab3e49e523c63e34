//go:build tinygo && arm

package arm_cortex_a53

import "device/arm"

// MaskDAIF masks asynchronous aborts, IRQ and FIQ.
func MaskDAIF() {
	arm.Asm("cpsid aif")
}

// UnmaskDAIF unmasks asynchronous aborts, IRQ and FIQ.
func UnmaskDAIF() {
	arm.Asm("cpsie aif")
}

// InstallVectors loads VBAR with the vector table of the boot assembly. Only
// PL1 is supported on AArch32.
func InstallVectors(ExceptionLevel) {
	arm.Asm("ldr r0, =vectors")
	arm.Asm("mcr p15, 0, r0, c12, c0, 0")
	arm.Asm("isb")
}
