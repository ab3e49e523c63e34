//go:build tinygo && (arm64 || arm)

package exception

import (
	a53 "awaken/src/hardware/arm-cortex-a53"
)

var installed *Dispatcher

// Install routes the vector table to d.
func Install(d *Dispatcher) {
	installed = d
}

// called by the vector table with the saved state of the exception
//
//export __exception_handler_default
func exceptionHandlerDefault(t uint32, esr, spsr, far, elr uint64) {
	if installed == nil {
		for {
			a53.WaitForEvent()
		}
	}
	installed.Handle(a53.CurrentCore(), Record{Type: Type(t), ESR: esr, SPSR: spsr, FAR: far, ELR: elr})
}
