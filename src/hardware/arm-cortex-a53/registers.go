package arm_cortex_a53

// ***************************************
// SCTLR_EL1, System Control Register (EL1), Page 2654 of AArch64-Reference-Manual.
// ***************************************

const SystemControlRegisterEL1Reserved = (3 << 28) | (3 << 22) | (1 << 20) | (1 << 11)
const SystemControlRegisterMMUEnabled = (1 << 0)
const SystemControlRegisterAlignmentCheck = (1 << 1)
const SystemControlRegisterDCacheEnabled = (1 << 2)
const SystemControlRegisterStackAlignmentCheck = (1 << 3)
const SystemControlRegisterICacheEnabled = (1 << 12)

// SystemControlRegisterMMUAndCaches is the set of bits toggled when the MMU is
// switched on or off: M, C and I.
const SystemControlRegisterMMUAndCaches = SystemControlRegisterMMUEnabled |
	SystemControlRegisterDCacheEnabled |
	SystemControlRegisterICacheEnabled

const SystemControlRegisterValueMMUEnabled = (SystemControlRegisterEL1Reserved | // 0x30D00800
	SystemControlRegisterMMUAndCaches) // 0x30D01805

// ***************************************
// SCTLR_EL2, System Control Register (EL2), Page 2665 of AArch64-Reference-Manual.
// ***************************************

const SystemControlRegisterEL2Reserved = (3 << 28) | (3 << 22) | (1 << 18) | (1 << 16) | (1 << 11) | (3 << 4)
const SystemControlRegisterEL2ValueMMUEnabled = SystemControlRegisterEL2Reserved | //0x30C50830
	SystemControlRegisterMMUAndCaches //0x30C51835

// ***************************************
// HCR_EL2, Hypervisor Configuration Register (EL2), Page 2487 of AArch64-Reference-Manual.
// ***************************************

const HypervisorConfigurationRegisterVM = (1 << 0)
const HypervisorConfigurationRegisterDC = (1 << 12)
const HypervisorConfigurationRegisterRW = (1 << 31)

// ***************************************
// MAIR_ELx, Memory Attribute Indirection Register. One byte per attribute index.
// ***************************************

const MemoryAttributeDeviceNGnRnE = 0x00
const MemoryAttributeDeviceNGnRE = 0x04
const MemoryAttributeDeviceGRE = 0x0C
const MemoryAttributeNormalNonCacheable = 0x44
const MemoryAttributeNormalWriteBack = 0xFF
const MemoryAttributeFieldWidth = 8

// ***************************************
// TCR_EL1 / TCR_EL2, Translation Control Register. Field positions; widths in comments.
// ***************************************

const TranslationControlT0SZ = 0   // 6 bits
const TranslationControlEPD0 = 7   // 1 bit, 1 disables TTBR0 walks
const TranslationControlIRGN0 = 8  // 2 bits
const TranslationControlORGN0 = 10 // 2 bits
const TranslationControlSH0 = 12   // 2 bits
const TranslationControlTG0 = 14   // 2 bits
const TranslationControlT1SZ = 16  // 6 bits (EL1 only)
const TranslationControlEPD1 = 23  // 1 bit (EL1 only)
const TranslationControlIRGN1 = 24 // 2 bits (EL1 only)
const TranslationControlORGN1 = 26 // 2 bits (EL1 only)
const TranslationControlSH1 = 28   // 2 bits (EL1 only)
const TranslationControlTG1 = 30   // 2 bits (EL1 only)
const TranslationControlIPS = 32   // 3 bits (EL1 only)
const TranslationControlTBI0 = 37  // 1 bit (EL1 only)

const TranslationControlEL2PS = 16  // 3 bits
const TranslationControlEL2TBI = 20 // 1 bit
const TranslationControlEL2Reserved = (1 << 31) | (1 << 23)

const TranslationControlSizeMask = 0x3F
const TranslationControlTwoBitMask = 0x3
const TranslationControlSizeFieldMask = 0x7

const TranslationControlWriteBackReadWriteAllocate = 0b01
const TranslationControlInnerShareable = 0b11
const TranslationControlGranule4KB = 0b00
const TranslationControlGranule4KBTTBR1 = 0b10
const TranslationControlPhysical32Bits = 0b000

// ***************************************
// AArch32 (CP15) registers used with the long-descriptor (LPAE) format.
// ***************************************

// TTBCR
const TranslationTableControlEAE = (1 << 31)
const TranslationTableControlEPD1 = (1 << 23)
const TranslationTableControlSH0 = 12
const TranslationTableControlORGN0 = 10
const TranslationTableControlIRGN0 = 8

// ACTLR: enable write access to CPUACTLR and CPUECTLR
const AuxiliaryControlCPUACTLR = (1 << 0)
const AuxiliaryControlCPUECTLR = (1 << 1)

// DACR: every one of the 16 domains set to manager (0b11)
const DomainAccessAllManager = 0xFFFF_FFFF

// CPSR mode field
const ProgramStatusModeMask = 0x1F
const ProgramStatusModeUser = 0x10
const ProgramStatusModeFIQ = 0x11
const ProgramStatusModeIRQ = 0x12
const ProgramStatusModeSupervisor = 0x13
const ProgramStatusModeMonitor = 0x16
const ProgramStatusModeAbort = 0x17
const ProgramStatusModeHypervisor = 0x1A
const ProgramStatusModeUndefined = 0x1B
const ProgramStatusModeSystem = 0x1F

// ***************************************
// ESR_ELx, Exception Syndrome Register, Page 2431 of AArch64-Reference-Manual.
// ***************************************

const ExceptionSyndromeClassShift = 26
const ExceptionSyndromeClassMask = 0x3F
const ExceptionSyndromeISSMask = 0x01FF_FFFF
const ExceptionSyndromeCacheMaintenance = 8 // bit position, data aborts
const ExceptionSyndromeWriteNotRead = 6     // bit position, data aborts
const ExceptionSyndromeFaultStatusMask = 0x3F

// ***************************************
// SPSR_EL3, Saved Program Status Register (EL3) Page 389 of AArch64-Reference-Manual.
// ***************************************

const SavedProgramStatusRegisterMaskAll = (7 << 6)
const SavedProgramStatusRegisterEl1h = (5 << 0) //EL1 has own stack
const SavedProgramStatusRegisterValue = SavedProgramStatusRegisterMaskAll |
	SavedProgramStatusRegisterEl1h //0x1C0
