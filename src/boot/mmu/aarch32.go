package mmu

import (
	"errors"
	"fmt"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// TranslationTableControl is the TTBCR value: long descriptors (LPAE),
// T0SZ 0 so TTBR0 covers all 4GB, write-back inner shareable walks and
// TTBR1 walks disabled.
const TranslationTableControl = a53.TranslationTableControlEAE |
	a53.TranslationTableControlEPD1 |
	a53.TranslationControlInnerShareable<<a53.TranslationTableControlSH0 |
	a53.TranslationControlWriteBackReadWriteAllocate<<a53.TranslationTableControlORGN0 |
	a53.TranslationControlWriteBackReadWriteAllocate<<a53.TranslationTableControlIRGN0 //0x80803500

// AArch32 brings up the MMU of a core in the 32 bit execution state. Only
// PL1 modes are supported; a core left in HYP mode by the firmware is not.
type AArch32 struct {
	Regs   a53.SystemRegisters32
	Tables *Builder
}

func (m *AArch32) check() error {
	cpsr := m.Regs.CPSR()
	if el := a53.LevelFromMode(cpsr); el != a53.EL1 {
		return fmt.Errorf("%w: %s (mode %#x)", ErrUnsupportedLevel, el, cpsr&a53.ProgramStatusModeMask)
	}
	return nil
}

func (m *AArch32) settle() {
	m.Regs.Nop()
	m.Regs.Nop()
	m.Regs.DSB()
	m.Regs.ISB()
}

func (m *AArch32) off() {
	m.Regs.WriteSCTLR(m.Regs.ReadSCTLR() &^ a53.SystemControlRegisterMMUAndCaches)
	m.settle()
}

// Initialize maps memory 1:1 and turns the MMU and caches on for the calling
// core. Core 0 builds the table.
func (m *AArch32) Initialize(core uint32) error {
	if err := m.check(); err != nil {
		return err
	}
	m.off()

	m.Regs.WriteACTLR(m.Regs.ReadACTLR() | a53.AuxiliaryControlCPUACTLR | a53.AuxiliaryControlCPUECTLR)

	if core == 0 {
		if err := m.Tables.Build(); err != nil && !errors.Is(err, ErrAlreadyBuilt) {
			return err
		}
		m.Regs.DSBStore()
	}

	m.Regs.WriteTTBCR(TranslationTableControl)
	mair := MAIR()
	m.Regs.WriteMAIR0(uint32(mair))
	m.Regs.WriteMAIR1(uint32(mair >> 32))
	m.Regs.WriteTTBR0(uint64(m.Tables.Base()))
	m.Regs.WriteDACR(a53.DomainAccessAllManager)
	m.Regs.WriteSCTLR(m.Regs.ReadSCTLR() | a53.SystemControlRegisterMMUAndCaches)
	m.settle()
	return nil
}

// Disable turns the MMU and caches off, keeping the table as it is.
func (m *AArch32) Disable() error {
	if err := m.check(); err != nil {
		return err
	}
	m.off()
	return nil
}
