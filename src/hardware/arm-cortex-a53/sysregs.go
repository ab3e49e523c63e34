package arm_cortex_a53

// Barriers are the ordering, cache maintenance and event instructions the
// boot path needs, shared by both execution states.
type Barriers interface {
	Nop()
	DSB()      // dsb sy
	DSBStore() // dsb ishst
	ISB()
	SEV()
	// CleanInvalidateDCache cleans and invalidates every data cache level by set/way.
	CleanInvalidateDCache()
	// CleanDCacheLine cleans the line holding addr to the point of coherency.
	CleanDCacheLine(addr uintptr)
}

// SystemRegisters64 is typed access to the AArch64 system registers the MMU
// bring-up touches. Registers that exist per level take the level to address.
type SystemRegisters64 interface {
	Barriers
	CurrentEL() uint64
	ReadSCTLR(el ExceptionLevel) uint64
	WriteSCTLR(el ExceptionLevel, v uint64)
	WriteMAIR(el ExceptionLevel, v uint64)
	WriteTTBR0(el ExceptionLevel, v uint64)
	WriteTCR(el ExceptionLevel, v uint64)
	ReadHCR() uint64
	WriteHCR(v uint64)
}

// SystemRegisters32 is the AArch32 (CP15) counterpart of SystemRegisters64.
type SystemRegisters32 interface {
	Barriers
	CPSR() uint32
	ReadSCTLR() uint32
	WriteSCTLR(v uint32)
	ReadACTLR() uint32
	WriteACTLR(v uint32)
	WriteTTBCR(v uint32)
	WriteMAIR0(v uint32)
	WriteMAIR1(v uint32)
	WriteTTBR0(v uint64)
	WriteDACR(v uint32)
}
