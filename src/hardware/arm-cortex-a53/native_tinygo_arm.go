//go:build tinygo && arm

package arm_cortex_a53

import (
	"device/arm"
	"math/bits"
)

// Native32 executes the real CP15 accesses.
type Native32 struct{}

func (Native32) Nop()      { arm.Asm("nop") }
func (Native32) DSB()      { arm.Asm("dsb sy") }
func (Native32) DSBStore() { arm.Asm("dsb ishst") }
func (Native32) ISB()      { arm.Asm("isb") }
func (Native32) SEV()      { arm.Asm("sev") }

func (Native32) CleanDCacheLine(addr uintptr) {
	arm.AsmFull("mcr p15, 0, {addr}, c7, c10, 1", map[string]interface{}{"addr": addr}) // DCCMVAC
}

func (Native32) CleanInvalidateDCache() {
	clidr := arm.AsmFull("mrc p15, 1, {}, c0, c0, 1", nil)
	levels := (clidr >> 24) & 0x7
	for level := uintptr(0); level < levels; level++ {
		if (clidr>>(level*3))&0x7 < 2 {
			continue
		}
		arm.AsmFull("mcr p15, 2, {sel}, c0, c0, 0", map[string]interface{}{"sel": level << 1}) // CSSELR
		arm.Asm("isb")
		ccsidr := arm.AsmFull("mrc p15, 1, {}, c0, c0, 0", nil)
		lineShift := (ccsidr & 0x7) + 4
		ways := (ccsidr >> 3) & 0x3FF
		sets := (ccsidr >> 13) & 0x7FFF
		wayShift := uintptr(bits.LeadingZeros32(uint32(ways)))
		for set := sets; ; set-- {
			for way := ways; ; way-- {
				sw := (way << wayShift) | (set << lineShift) | (level << 1)
				arm.AsmFull("mcr p15, 0, {sw}, c7, c14, 2", map[string]interface{}{"sw": sw}) // DCCISW
				if way == 0 {
					break
				}
			}
			if set == 0 {
				break
			}
		}
	}
	arm.Asm("dsb sy")
	arm.Asm("isb")
}

func (Native32) CPSR() uint32 {
	return uint32(arm.AsmFull("mrs {}, cpsr", nil))
}

func (Native32) ReadSCTLR() uint32 {
	return uint32(arm.AsmFull("mrc p15, 0, {}, c1, c0, 0", nil))
}

func (Native32) WriteSCTLR(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c1, c0, 0", map[string]interface{}{"v": v})
}

func (Native32) ReadACTLR() uint32 {
	return uint32(arm.AsmFull("mrc p15, 0, {}, c1, c0, 1", nil))
}

func (Native32) WriteACTLR(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c1, c0, 1", map[string]interface{}{"v": v})
}

func (Native32) WriteTTBCR(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c2, c0, 2", map[string]interface{}{"v": v})
}

func (Native32) WriteMAIR0(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c10, c2, 0", map[string]interface{}{"v": v})
}

func (Native32) WriteMAIR1(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c10, c2, 1", map[string]interface{}{"v": v})
}

func (Native32) WriteTTBR0(v uint64) {
	arm.AsmFull("mcrr p15, 0, {lo}, {hi}, c2", map[string]interface{}{
		"lo": uint32(v),
		"hi": uint32(v >> 32),
	})
}

func (Native32) WriteDACR(v uint32) {
	arm.AsmFull("mcr p15, 0, {v}, c3, c0, 0", map[string]interface{}{"v": v})
}

// CurrentCore returns Aff0 of MPIDR.
func CurrentCore() uint32 {
	return uint32(arm.AsmFull("mrc p15, 0, {}, c0, c0, 5", nil) & 0x3)
}

// WaitForEvent parks the core until the next event (sev or interrupt).
func WaitForEvent() {
	arm.Asm("wfe")
}
