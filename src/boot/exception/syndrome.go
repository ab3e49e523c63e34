package exception

import (
	"github.com/usbarmory/tamago/bits"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// Class is the 6 bit exception class of ESR_ELx.
type Class uint8

const (
	ClassUnknown          Class = 0b000000
	ClassSVCA32           Class = 0b010001
	ClassHVCA32           Class = 0b010010
	ClassSMCA32           Class = 0b010011
	ClassSVCA64           Class = 0b010101
	ClassHVCA64           Class = 0b010110
	ClassSMCA64           Class = 0b010111
	ClassInstructionAbort Class = 0b100001
	ClassDataAbortLowerEL Class = 0b100100
	ClassDataAbortSameEL  Class = 0b100101
	ClassBRK              Class = 0b111100
)

// ExceptionClass extracts EC from esr.
func ExceptionClass(esr uint64) Class {
	return Class(bits.Get64(&esr, a53.ExceptionSyndromeClassShift, a53.ExceptionSyndromeClassMask))
}

// ISS extracts the instruction specific syndrome from esr.
func ISS(esr uint64) uint64 {
	return esr & a53.ExceptionSyndromeISSMask
}

// Syndrome builds an ESR value, the inverse of ExceptionClass and ISS. The IL
// bit is set as it is for every 32 bit instruction.
func Syndrome(ec Class, iss uint64) uint64 {
	var esr uint64
	bits.SetN64(&esr, a53.ExceptionSyndromeClassShift, a53.ExceptionSyndromeClassMask, uint64(ec))
	bits.Set64(&esr, 25)
	return esr | iss&a53.ExceptionSyndromeISSMask
}
