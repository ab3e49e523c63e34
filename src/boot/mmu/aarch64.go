package mmu

import (
	"errors"
	"fmt"

	"github.com/usbarmory/tamago/bits"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// T0SZ of 25 gives a 39 bit input range, so the walk starts at level 1.
const regionSizeOffset = 25

// TranslationControlEL1 is the TCR_EL1 value: TTBR0 walks of the 4KB granule
// with write-back inner shareable table walks, TTBR1 walks disabled, 32 bit
// physical addresses and the top byte ignored.
func TranslationControlEL1() uint64 {
	var tcr uint64
	bits.SetN64(&tcr, a53.TranslationControlT0SZ, a53.TranslationControlSizeMask, regionSizeOffset)
	bits.SetN64(&tcr, a53.TranslationControlIRGN0, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlORGN0, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlSH0, a53.TranslationControlTwoBitMask, a53.TranslationControlInnerShareable)
	bits.SetN64(&tcr, a53.TranslationControlTG0, a53.TranslationControlTwoBitMask, a53.TranslationControlGranule4KB)
	bits.SetN64(&tcr, a53.TranslationControlT1SZ, a53.TranslationControlSizeMask, regionSizeOffset)
	bits.Set64(&tcr, a53.TranslationControlEPD1)
	bits.SetN64(&tcr, a53.TranslationControlIRGN1, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlORGN1, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlSH1, a53.TranslationControlTwoBitMask, a53.TranslationControlInnerShareable)
	bits.SetN64(&tcr, a53.TranslationControlTG1, a53.TranslationControlTwoBitMask, a53.TranslationControlGranule4KBTTBR1)
	bits.SetN64(&tcr, a53.TranslationControlIPS, a53.TranslationControlSizeFieldMask, a53.TranslationControlPhysical32Bits)
	bits.Set64(&tcr, a53.TranslationControlTBI0)
	return tcr
}

// TranslationControlEL2 is the TCR_EL2 value, the EL2 subset of the EL1 one.
func TranslationControlEL2() uint64 {
	tcr := uint64(a53.TranslationControlEL2Reserved)
	bits.SetN64(&tcr, a53.TranslationControlT0SZ, a53.TranslationControlSizeMask, regionSizeOffset)
	bits.SetN64(&tcr, a53.TranslationControlIRGN0, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlORGN0, a53.TranslationControlTwoBitMask, a53.TranslationControlWriteBackReadWriteAllocate)
	bits.SetN64(&tcr, a53.TranslationControlSH0, a53.TranslationControlTwoBitMask, a53.TranslationControlInnerShareable)
	bits.SetN64(&tcr, a53.TranslationControlTG0, a53.TranslationControlTwoBitMask, a53.TranslationControlGranule4KB)
	bits.SetN64(&tcr, a53.TranslationControlEL2PS, a53.TranslationControlSizeFieldMask, a53.TranslationControlPhysical32Bits)
	bits.Set64(&tcr, a53.TranslationControlEL2TBI)
	return tcr
}

// AArch64 brings up the MMU of a core in the 64 bit execution state, at EL1
// or EL2.
type AArch64 struct {
	Regs   a53.SystemRegisters64
	Tables *Builder
}

func (m *AArch64) level() (a53.ExceptionLevel, error) {
	el := a53.LevelFromCurrentEL(m.Regs.CurrentEL())
	if el != a53.EL1 && el != a53.EL2 {
		return el, fmt.Errorf("%w: %s", ErrUnsupportedLevel, el)
	}
	return el, nil
}

func (m *AArch64) off(el a53.ExceptionLevel) {
	m.Regs.WriteSCTLR(el, m.Regs.ReadSCTLR(el)&^a53.SystemControlRegisterMMUAndCaches)
	m.settle()
}

// let 2 cycles pass to settle the MMU, then synchronize
func (m *AArch64) settle() {
	m.Regs.Nop()
	m.Regs.Nop()
	m.Regs.DSB()
	m.Regs.ISB()
}

// Initialize maps memory 1:1 and turns the MMU and caches on for the calling
// core. Core 0 builds the table. At an unsupported level nothing is written.
func (m *AArch64) Initialize(core uint32) error {
	el, err := m.level()
	if err != nil {
		return err
	}
	m.off(el)

	if core == 0 {
		if err := m.Tables.Build(); err != nil && !errors.Is(err, ErrAlreadyBuilt) {
			return err
		}
		m.Regs.DSBStore()
	}

	m.Regs.WriteMAIR(el, MAIR())
	m.Regs.WriteTTBR0(el, uint64(m.Tables.Base()))
	if el == a53.EL2 {
		m.Regs.WriteTCR(el, TranslationControlEL2())
		hcr := m.Regs.ReadHCR()
		m.Regs.WriteHCR(hcr &^ (a53.HypervisorConfigurationRegisterDC | a53.HypervisorConfigurationRegisterVM))
		m.Regs.WriteSCTLR(el, a53.SystemControlRegisterEL2ValueMMUEnabled)
	} else {
		m.Regs.WriteTCR(el, TranslationControlEL1())
		m.Regs.WriteSCTLR(el, a53.SystemControlRegisterValueMMUEnabled)
	}
	m.settle()
	return nil
}

// Disable turns the MMU and caches off at the current level, keeping the
// table as it is.
func (m *AArch64) Disable() error {
	el, err := m.level()
	if err != nil {
		return err
	}
	m.off(el)
	return nil
}
