package arm_cortex_a53

// ARM local peripherals of the BCM2836/7 (QA7_rev3.4.pdf). The block sits
// above the VideoCore peripherals and is the same for every Pi 2/3.
const LocalPeripheralBase = uintptr(0x4000_0000)

const LocalControl = 0x00
const LocalPrescaler = 0x08
const LocalGPUInterruptsRouting = 0x0C
const LocalCoreTimerLower32 = 0x1C
const LocalCoreTimerUpper32 = 0x20
const LocalTimerControlStatus = 0x34
const LocalCoreTimerInterruptControl = 0x40   // + 4*core
const LocalCoreMailboxInterruptControl = 0x50 // + 4*core
const LocalCoreIRQSource = 0x60               // + 4*core
const LocalCoreFIQSource = 0x70               // + 4*core

// mailboxes: 4 per core, write-set at 0x80 and read/write-clear at 0xC0
const localMailboxWriteSet = 0x80
const localMailboxReadClear = 0xC0
const localMailboxStride = 0x10

// MailboxWriteSet is the address of the write-set register of the given
// mailbox (0..3) of core (0..3). Firmware parks secondary AArch32 cores
// polling mailbox 3.
func MailboxWriteSet(core, mailbox uint32) uintptr {
	return LocalPeripheralBase + localMailboxWriteSet +
		uintptr(core)*localMailboxStride + uintptr(mailbox)*4
}

// MailboxReadClear is the read/write-clear register of the same mailbox.
func MailboxReadClear(core, mailbox uint32) uintptr {
	return LocalPeripheralBase + localMailboxReadClear +
		uintptr(core)*localMailboxStride + uintptr(mailbox)*4
}
