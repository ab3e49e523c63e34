//go:build tinygo && arm64

package arm_cortex_a53

import (
	"device/arm64"
	"math/bits"
)

// Native64 executes the real instructions. Registers with a per-level copy
// are selected with a switch since the register name is part of the opcode.
type Native64 struct{}

func (Native64) Nop()      { arm64.Asm("nop") }
func (Native64) DSB()      { arm64.Asm("dsb sy") }
func (Native64) DSBStore() { arm64.Asm("dsb ishst") }
func (Native64) ISB()      { arm64.Asm("isb") }
func (Native64) SEV()      { arm64.Asm("sev") }

func (Native64) CleanDCacheLine(addr uintptr) {
	arm64.AsmFull("dc cvac, {addr}", map[string]interface{}{"addr": addr})
}

func (Native64) CleanInvalidateDCache() {
	clidr := arm64.AsmFull("mrs {}, clidr_el1", nil)
	levels := (clidr >> 24) & 0x7 // level of coherency
	for level := uintptr(0); level < levels; level++ {
		if (clidr>>(level*3))&0x7 < 2 { // no data cache at this level
			continue
		}
		arm64.AsmFull("msr csselr_el1, {sel}", map[string]interface{}{"sel": level << 1})
		arm64.Asm("isb")
		ccsidr := arm64.AsmFull("mrs {}, ccsidr_el1", nil)
		lineShift := (ccsidr & 0x7) + 4
		ways := (ccsidr >> 3) & 0x3FF
		sets := (ccsidr >> 13) & 0x7FFF
		wayShift := uintptr(bits.LeadingZeros32(uint32(ways)))
		for set := sets; ; set-- {
			for way := ways; ; way-- {
				sw := (way << wayShift) | (set << lineShift) | (level << 1)
				arm64.AsmFull("dc cisw, {sw}", map[string]interface{}{"sw": sw})
				if way == 0 {
					break
				}
			}
			if set == 0 {
				break
			}
		}
	}
	arm64.Asm("dsb sy")
	arm64.Asm("isb")
}

func (Native64) CurrentEL() uint64 {
	return uint64(arm64.AsmFull("mrs {}, CurrentEL", nil))
}

func (Native64) ReadSCTLR(el ExceptionLevel) uint64 {
	if el == EL2 {
		return uint64(arm64.AsmFull("mrs {}, sctlr_el2", nil))
	}
	return uint64(arm64.AsmFull("mrs {}, sctlr_el1", nil))
}

func (Native64) WriteSCTLR(el ExceptionLevel, v uint64) {
	if el == EL2 {
		arm64.AsmFull("msr sctlr_el2, {v}", map[string]interface{}{"v": v})
		return
	}
	arm64.AsmFull("msr sctlr_el1, {v}", map[string]interface{}{"v": v})
}

func (Native64) WriteMAIR(el ExceptionLevel, v uint64) {
	if el == EL2 {
		arm64.AsmFull("msr mair_el2, {v}", map[string]interface{}{"v": v})
		return
	}
	arm64.AsmFull("msr mair_el1, {v}", map[string]interface{}{"v": v})
}

func (Native64) WriteTTBR0(el ExceptionLevel, v uint64) {
	if el == EL2 {
		arm64.AsmFull("msr ttbr0_el2, {v}", map[string]interface{}{"v": v})
		return
	}
	arm64.AsmFull("msr ttbr0_el1, {v}", map[string]interface{}{"v": v})
}

func (Native64) WriteTCR(el ExceptionLevel, v uint64) {
	if el == EL2 {
		arm64.AsmFull("msr tcr_el2, {v}", map[string]interface{}{"v": v})
		return
	}
	arm64.AsmFull("msr tcr_el1, {v}", map[string]interface{}{"v": v})
}

func (Native64) ReadHCR() uint64 {
	return uint64(arm64.AsmFull("mrs {}, hcr_el2", nil))
}

func (Native64) WriteHCR(v uint64) {
	arm64.AsmFull("msr hcr_el2, {v}", map[string]interface{}{"v": v})
}

// CurrentCore returns Aff0 of MPIDR_EL1, the core number on the BCM2837.
func CurrentCore() uint32 {
	return uint32(arm64.AsmFull("mrs {}, mpidr_el1", nil) & 0x3)
}

// WaitForEvent parks the core until the next event (sev or interrupt).
func WaitForEvent() {
	arm64.Asm("wfe")
}
