// Package exception decodes the exceptions taken by the boot image and
// decides what happens next: fatal exceptions are reported once and halt the
// core, a debug break halts it silently and interrupts go to the registered
// interrupt handler.
package exception

import "fmt"

// Type is the vector an exception came through, as passed by the vector
// table of the boot assembly.
type Type uint32

const (
	CurrentElSp0Sync Type = 0x01
	CurrentElSp0Irq  Type = 0x02
	CurrentElSp0Fiq  Type = 0x03
	CurrentElSp0SErr Type = 0x04

	CurrentElSpxSync Type = 0x11
	CurrentElSpxIrq  Type = 0x12
	CurrentElSpxFiq  Type = 0x13
	CurrentElSpxSErr Type = 0x14

	LowerEl64SpxSync Type = 0x21
	LowerEl64SpxIrq  Type = 0x22
	LowerEl64SpxFiq  Type = 0x23
	LowerEl64SpxSErr Type = 0x24

	LowerEl32SpxSync Type = 0x31
	LowerEl32SpxIrq  Type = 0x32
	LowerEl32SpxFiq  Type = 0x33
	LowerEl32SpxSErr Type = 0x34

	A32UndefInstruction  Type = 0x50
	A32SoftwareInterrupt Type = 0x51
	A32PrefetchAbort     Type = 0x52
	A32DataAbort         Type = 0x53
	A32Irq               Type = 0x54
	A32Fiq               Type = 0x55
)

var typeNames = map[Type]string{
	CurrentElSp0Sync:     "CurrentElSp0Sync",
	CurrentElSp0Irq:      "CurrentElSp0Irq",
	CurrentElSp0Fiq:      "CurrentElSp0Fiq",
	CurrentElSp0SErr:     "CurrentElSp0SErr",
	CurrentElSpxSync:     "CurrentElSpxSync",
	CurrentElSpxIrq:      "CurrentElSpxIrq",
	CurrentElSpxFiq:      "CurrentElSpxFiq",
	CurrentElSpxSErr:     "CurrentElSpxSErr",
	LowerEl64SpxSync:     "LowerEl64SpxSync",
	LowerEl64SpxIrq:      "LowerEl64SpxIrq",
	LowerEl64SpxFiq:      "LowerEl64SpxFiq",
	LowerEl64SpxSErr:     "LowerEl64SpxSErr",
	LowerEl32SpxSync:     "LowerEl32SpxSync",
	LowerEl32SpxIrq:      "LowerEl32SpxIrq",
	LowerEl32SpxFiq:      "LowerEl32SpxFiq",
	LowerEl32SpxSErr:     "LowerEl32SpxSErr",
	A32UndefInstruction:  "A32UndefInstruction",
	A32SoftwareInterrupt: "A32SoftwareInterrupt",
	A32PrefetchAbort:     "A32PrefetchAbort",
	A32DataAbort:         "A32DataAbort",
	A32Irq:               "A32Irq",
	A32Fiq:               "A32Fiq",
}

// Types lists every vector type, in value order.
var Types = []Type{
	CurrentElSp0Sync, CurrentElSp0Irq, CurrentElSp0Fiq, CurrentElSp0SErr,
	CurrentElSpxSync, CurrentElSpxIrq, CurrentElSpxFiq, CurrentElSpxSErr,
	LowerEl64SpxSync, LowerEl64SpxIrq, LowerEl64SpxFiq, LowerEl64SpxSErr,
	LowerEl32SpxSync, LowerEl32SpxIrq, LowerEl32SpxFiq, LowerEl32SpxSErr,
	A32UndefInstruction, A32SoftwareInterrupt, A32PrefetchAbort, A32DataAbort, A32Irq, A32Fiq,
}

// Known reports whether t is one of the vector types.
func (t Type) Known() bool {
	_, ok := typeNames[t]
	return ok
}

func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// TypeByName is the inverse of String for known types.
func TypeByName(name string) (Type, bool) {
	for t, n := range typeNames {
		if n == name {
			return t, true
		}
	}
	return 0, false
}

// Interrupt reports whether t is an IRQ or FIQ vector at any level.
// SystemError reports whether t is an SError vector.
func (t Type) SystemError() bool {
	switch t {
	case CurrentElSp0SErr, CurrentElSpxSErr, LowerEl64SpxSErr, LowerEl32SpxSErr:
		return true
	}
	return false
}

func (t Type) Interrupt() bool {
	switch t {
	case CurrentElSp0Irq, CurrentElSp0Fiq, CurrentElSpxIrq, CurrentElSpxFiq,
		LowerEl64SpxIrq, LowerEl64SpxFiq, LowerEl32SpxIrq, LowerEl32SpxFiq,
		A32Irq, A32Fiq:
		return true
	}
	return false
}

// Record is everything the vector saves about one exception.
type Record struct {
	Type Type
	ESR  uint64
	SPSR uint64
	FAR  uint64
	ELR  uint64
}

func (r Record) String() string {
	return fmt.Sprintf("type=%s(%#02x) esr=%#x spsr=%#x far=%#x elr=%#x",
		r.Type, uint32(r.Type), r.ESR, r.SPSR, r.FAR, r.ELR)
}
