package exception

import (
	"fmt"

	"github.com/usbarmory/tamago/bits"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// Kind is what the dispatcher does with an exception.
type Kind uint8

const (
	// Fatal exceptions are reported and halt the core.
	Fatal Kind = iota
	// Break halts the core without a report.
	Break
	// Interrupt goes to the interrupt handler and returns.
	Interrupt
	// Reported exceptions are reported and return to where they were taken.
	Reported
)

func (k Kind) String() string {
	switch k {
	case Fatal:
		return "fatal"
	case Break:
		return "break"
	case Interrupt:
		return "interrupt"
	case Reported:
		return "reported"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Condition names what happened.
type Condition uint8

const (
	UnknownReason Condition = iota
	SVCInA32
	HVCInA32
	SMCInA32
	SVCInA64
	HVCInA64
	SMCInA64
	InstructionAbort
	DataAbortLowerEL
	DataAbortSameEL
	BreakInstruction
	UnhandledSync
	InterruptRequest
	UndefinedInstruction
	SoftwareInterrupt
	PrefetchAbort
	DataAbort
	UnhandledException
	SystemError
)

var conditionText = [...]string{
	UnknownReason:        "unknown reason",
	SVCInA32:             "SVC in a32 instruction called",
	HVCInA32:             "HVC in a32 instruction called",
	SMCInA32:             "SMC in a32 instruction called",
	SVCInA64:             "SVC in a64 instruction called",
	HVCInA64:             "HVC in a64 instruction called",
	SMCInA64:             "SMC in a64 instruction called",
	InstructionAbort:     "instruction abort",
	DataAbortLowerEL:     "data abort lower EL",
	DataAbortSameEL:      "data abort same EL",
	BreakInstruction:     "BRK instruction",
	UnhandledSync:        "unhandled sync exception",
	InterruptRequest:     "interrupt",
	UndefinedInstruction: "undefined instruction",
	SoftwareInterrupt:    "software interrupt",
	PrefetchAbort:        "prefetch abort",
	DataAbort:            "data abort",
	UnhandledException:   "unhandled exception",
	SystemError:          "system error",
}

func (c Condition) String() string {
	if int(c) < len(conditionText) {
		return conditionText[c]
	}
	return fmt.Sprintf("Condition(%d)", uint8(c))
}

// Fault is the decoded data fault status code (DFSC).
type Fault uint8

const (
	OtherFault Fault = iota
	TranslationFault
	AlignmentFault
)

// DataAbortSyndrome is the decoded ISS of a data abort.
type DataAbortSyndrome struct {
	CacheMaintenance bool
	Write            bool
	Fault            Fault
	// Level is the translation table level of a translation fault.
	Level uint8
	// Status is the raw DFSC.
	Status uint8
}

const (
	faultStatusTranslation     = 0b000100 // low two bits are the level
	faultStatusTranslationMask = 0b111100
	faultStatusAlignment       = 0b100001
)

// DecodeDataAbort decodes the ISS of a data abort.
func DecodeDataAbort(iss uint64) DataAbortSyndrome {
	iss32 := uint32(iss)
	d := DataAbortSyndrome{
		CacheMaintenance: bits.IsSet(&iss32, a53.ExceptionSyndromeCacheMaintenance),
		Write:            bits.IsSet(&iss32, a53.ExceptionSyndromeWriteNotRead),
		Status:           uint8(iss32 & a53.ExceptionSyndromeFaultStatusMask),
	}
	switch {
	case d.Status&faultStatusTranslationMask == faultStatusTranslation:
		d.Fault = TranslationFault
		d.Level = d.Status & 0x3
	case d.Status == faultStatusAlignment:
		d.Fault = AlignmentFault
	}
	return d
}

func (d DataAbortSyndrome) String() string {
	s := "read"
	if d.Write {
		s = "write"
	}
	if d.CacheMaintenance {
		s = "cache maintenance, " + s
	}
	switch d.Fault {
	case TranslationFault:
		return fmt.Sprintf("%s, translation level %d", s, d.Level)
	case AlignmentFault:
		return s + ", alignment fault"
	}
	return fmt.Sprintf("%s, fault status %#02x", s, d.Status)
}

// Classification is the outcome of Classify.
type Classification struct {
	Type      Type
	Class     Class
	Kind      Kind
	Condition Condition
	// DataAbort is set for data aborts taken at the same level.
	DataAbort *DataAbortSyndrome
}

// Fatal reports whether the core must be halted with a report.
func (c Classification) Fatal() bool { return c.Kind == Fatal }

func (c Classification) String() string {
	if c.DataAbort != nil {
		return fmt.Sprintf("%s (%s)", c.Condition, c.DataAbort)
	}
	return c.Condition.String()
}

var syncConditions = map[Class]Condition{
	ClassUnknown:          UnknownReason,
	ClassSVCA32:           SVCInA32,
	ClassHVCA32:           HVCInA32,
	ClassSMCA32:           SMCInA32,
	ClassSVCA64:           SVCInA64,
	ClassHVCA64:           HVCInA64,
	ClassSMCA64:           SMCInA64,
	ClassInstructionAbort: InstructionAbort,
	ClassDataAbortLowerEL: DataAbortLowerEL,
	ClassDataAbortSameEL:  DataAbortSameEL,
}

var a32Conditions = map[Type]Condition{
	A32UndefInstruction:  UndefinedInstruction,
	A32SoftwareInterrupt: SoftwareInterrupt,
	A32PrefetchAbort:     PrefetchAbort,
	A32DataAbort:         DataAbort,
}

// Classify decides what r is. It is defined for every type and every
// exception class; anything not recognised is an unhandled fatal exception.
// SErrors are asynchronous aborts the core can return from, so they are
// only reported.
func Classify(r Record) Classification {
	c := Classification{Type: r.Type, Class: ExceptionClass(r.ESR), Kind: Fatal}
	switch {
	case r.Type.Interrupt():
		c.Kind = Interrupt
		c.Condition = InterruptRequest
	case r.Type.SystemError():
		c.Kind = Reported
		c.Condition = SystemError
	case r.Type == CurrentElSpxSync:
		if c.Class == ClassBRK {
			c.Kind = Break
			c.Condition = BreakInstruction
			break
		}
		cond, ok := syncConditions[c.Class]
		if !ok {
			c.Condition = UnhandledSync
			break
		}
		c.Condition = cond
		if c.Class == ClassDataAbortSameEL {
			d := DecodeDataAbort(ISS(r.ESR))
			c.DataAbort = &d
		}
	default:
		cond, ok := a32Conditions[r.Type]
		if !ok {
			cond = UnhandledException
		}
		c.Condition = cond
	}
	return c
}
