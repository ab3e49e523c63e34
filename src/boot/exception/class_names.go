package exception

import "fmt"

var classNames = [64]string{
	0x00: "unknown exception",
	0x01: "trapped WFE or WFI instruction",
	0x03: "trapped MCR or MRC access (coproc 15)",
	0x04: "trapped MCRR or MRRC access (coproc 15)",
	0x05: "trapped MCR or MRC access (coproc 14)",
	0x06: "trapped LDC or STC access",
	0x07: "access to SVE, advanced SIMD or FP functionality",
	0x0C: "trapped MRRC access (coproc 14)",
	0x0D: "branch target exception",
	0x0E: "illegal execution state",
	0x11: "SVC instruction in AARCH32",
	0x12: "HVC instruction in AARCH32",
	0x13: "SMC instruction in AARCH32",
	0x15: "SVC instruction in AARCH64",
	0x16: "HVC instruction in AARCH64",
	0x17: "SMC instruction in AARCH64",
	0x18: "trapped MRS, MSR or System instruction in AARCH64",
	0x19: "access to SVE functionality",
	0x1F: "implementation defined exception to EL3",
	0x20: "instruction abort from lower exception level",
	0x21: "instruction abort from same exception level",
	0x22: "PC alignment fault",
	0x24: "data abort from lower exception level",
	0x25: "data abort from same exception level",
	0x26: "SP alignment fault",
	0x28: "trapped floating point exception from AARCH32",
	0x2C: "trapped floating point exception from AARCH64",
	0x2F: "SError exception",
	0x30: "Breakpoint from lower exception level",
	0x31: "Breakpoint from same exception level",
	0x32: "Software step from lower exception level",
	0x33: "Software step from same exception level",
	0x34: "Watchpoint from lower exception level",
	0x35: "Watchpoint from same exception level",
	0x38: "BKPT from AARCH32",
	0x3A: "Vector catch from AARCH32",
	0x3C: "BRK from AARCH64",
}

// ClassName describes an exception class. Classes the architecture leaves
// unallocated say so.
func ClassName(ec Class) string {
	ec &= 0x3F
	if n := classNames[ec]; n != "" {
		return n
	}
	return fmt.Sprintf("unused exception code, should never happen (%d)", uint8(ec))
}
