package arm_cortex_a53

import "fmt"

// ExceptionLevel is the privilege level a core executes at.
type ExceptionLevel uint8

const (
	EL0 ExceptionLevel = iota
	EL1
	EL2
	EL3
)

func (el ExceptionLevel) String() string {
	if el > EL3 {
		return fmt.Sprintf("EL?(%d)", uint8(el))
	}
	return fmt.Sprintf("EL%d", uint8(el))
}

// LevelFromCurrentEL decodes the CurrentEL register (level in bits [3:2]).
func LevelFromCurrentEL(currentEL uint64) ExceptionLevel {
	return ExceptionLevel((currentEL >> 2) & 0x3)
}

// CurrentELValue is the inverse of LevelFromCurrentEL.
func CurrentELValue(el ExceptionLevel) uint64 {
	return uint64(el&0x3) << 2
}

// LevelFromMode maps an AArch32 CPSR mode onto the exception level it runs at.
// Unknown modes report EL0 since nothing privileged may assume them.
func LevelFromMode(cpsr uint32) ExceptionLevel {
	switch cpsr & ProgramStatusModeMask {
	case ProgramStatusModeSupervisor, ProgramStatusModeSystem, ProgramStatusModeAbort,
		ProgramStatusModeUndefined, ProgramStatusModeIRQ, ProgramStatusModeFIQ:
		return EL1
	case ProgramStatusModeHypervisor:
		return EL2
	case ProgramStatusModeMonitor:
		return EL3
	}
	return EL0
}
