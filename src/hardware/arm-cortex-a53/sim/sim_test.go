package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

func TestCore64Trace(t *testing.T) {
	c := NewCore64(a53.EL2)
	sevs := 0
	c.OnSEV(func() { sevs++ })

	assert.Equal(t, a53.EL2, a53.LevelFromCurrentEL(c.CurrentEL()))
	c.WriteTCR(a53.EL2, 0x80903519)
	c.DSB()
	c.SEV()

	assert.Equal(t, []string{"mrs currentel", "msr tcr_el2", "dsb sy", "sev"}, c.Names())
	assert.Equal(t, uint64(0x80903519), c.TCR(a53.EL2))
	assert.Equal(t, "msr tcr_el2 0x80903519", c.Trace()[1].String())
	assert.Equal(t, 1, sevs)

	c.Reset()
	assert.Empty(t, c.Trace())
}

func TestCore64ResetValues(t *testing.T) {
	c := NewCore64(a53.EL1)
	assert.Equal(t, uint64(a53.SystemControlRegisterEL1Reserved), c.SCTLR(a53.EL1))
	assert.Equal(t, uint64(a53.HypervisorConfigurationRegisterRW), c.HCR())
}

func TestCore32Mode(t *testing.T) {
	c := NewCore32(a53.ProgramStatusModeSupervisor)
	assert.Equal(t, a53.EL1, a53.LevelFromMode(c.CPSR()))

	var cleaned uintptr
	c.OnCleanLine(func(addr uintptr) { cleaned = addr })
	c.CleanDCacheLine(0x4000_009C)
	assert.Equal(t, uintptr(0x4000_009C), cleaned)
}
