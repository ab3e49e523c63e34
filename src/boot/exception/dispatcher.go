package exception

import (
	"awaken/src/boot/halt"
	"awaken/src/lib/trust"
)

// ISR handles an interrupt taken by core through vector t. It runs in the
// exception context and returns to the interrupted code.
type ISR func(core uint32, t Type)

func defaultISR(uint32, Type) {}

// Dispatcher applies the exception policy.
type Dispatcher struct {
	log  trust.Logger
	halt halt.Halter
	isr  ISR
}

// NewDispatcher reports through log and stops cores with h.
func NewDispatcher(log trust.Logger, h halt.Halter) *Dispatcher {
	if log == nil {
		log = trust.Discard
	}
	return &Dispatcher{log: log, halt: h, isr: defaultISR}
}

// SetInterruptHandler replaces the interrupt handler; nil restores the
// default, which ignores the interrupt.
func (d *Dispatcher) SetInterruptHandler(isr ISR) {
	if isr == nil {
		isr = defaultISR
	}
	d.isr = isr
}

// Handle classifies r and acts on it. On the device it does not return for
// fatal exceptions and breaks; SErrors are reported and return.
func (d *Dispatcher) Handle(core uint32, r Record) Classification {
	c := Classify(r)
	switch c.Kind {
	case Interrupt:
		d.isr(core, r.Type)
	case Break:
		d.halt.Halt(core, halt.Break)
	case Reported:
		d.log.Errorf("%s", Diagnostic(r, c))
	default:
		d.log.Errorf("%s", Diagnostic(r, c))
		d.halt.Halt(core, halt.Fatal)
	}
	return c
}
