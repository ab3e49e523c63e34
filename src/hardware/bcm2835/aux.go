package bcm2835

// aux peripherals register offsets
const (
	AuxInterruptStatus           = 0x00
	AuxEnables                   = 0x04
	AuxMiniUARTData              = 0x40 // 8 bits wide
	AuxMiniUARTInterruptEnable   = 0x44
	AuxMiniUARTInterruptIdentify = 0x48
	AuxMiniUARTLineControl       = 0x4C
	AuxMiniUARTModemControl      = 0x50
	AuxMiniUARTLineStatus        = 0x54 // readonly
	AuxMiniUARTModemStatus       = 0x58 // readonly
	AuxMiniUARTScratch           = 0x5C
	AuxMiniUARTExtraControl      = 0x60
	AuxMiniUARTExtraStatus       = 0x64
	AuxMiniUARTBAUD              = 0x68
)

// mini uart: peripheral enable
const PeripheralMiniUART = 1 << 0

// mini uart: extra control bitfields
const ReceiveEnable = 1 << 0
const TransmitEnable = 1 << 1
const EnableRTS = 1 << 2
const EnableCTS = 1 << 3

// mini uart: line control register bitfields
// https://elinux.org/BCM2835_datasheet_errata
const DataLength8Bits = 3 << 0
const Break = 1 << 6
const DLab = 1 << 7

// mini uart: modem control register bitfields
const ReadyToSend = 1 << 1

// mini uart: interrupt identify register bitfields
const ClearFIFOsMask = 0x3 //use with ReplaceBits at ClearFIFOsShift
const ClearFIFOsShift = 1
const ClearReceiveFIFO = 1 << 0 //Write, shifted by ClearFIFOsShift
const ClearTransmitFIFO = 1 << 1

// mini uart: line status register bitfields
const ReceivedDataAvailable = 1 << 0
const ReceivedDataOverrun = 1 << 1
const TransmitFIFOSpaceAvailable = 1 << 5
const TransmitterIdle = 1 << 6

// mini uart: interrupt enable register bitfields
// https://elinux.org/BCM2835_datasheet_errata#p12
const ReceiveFIFOReady = 1 << 0
const TransmitFIFOEmpty = 1 << 1
const LineStatusError = 1 << 2
const ModemStatusChange = 1 << 3

// BAUD divisor for 115200 at the 250MHz core clock, BCM2835 ARM Peripherals page 11.
const MiniUARTBaud115200 = 270
