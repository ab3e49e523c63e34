package bcm2835

import "awaken/src/lib/mmio"

// MiniUART is the aux "mini" UART, mapped to GPIO 14/15. It is the boot
// console: polled, 8 bits, no interrupts.
type MiniUART struct {
	Bus  mmio.Bus
	Base uintptr
	GPIO GPIO
	// Spin is called while waiting on the hardware; it is a nop on the
	// device and a yield in the simulator. Nil spins in place.
	Spin func()
}

// NewMiniUART returns the console on the standard peripheral addresses.
func NewMiniUART(b mmio.Bus) *MiniUART {
	return &MiniUART{Bus: b, Base: AuxBase, GPIO: GPIO{Bus: b, Base: GPIOBase}}
}

func (u *MiniUART) reg(offset uintptr) mmio.Register32 {
	return mmio.Reg(u.Bus, u.Base, offset)
}

func (u *MiniUART) spin(n int) {
	for ; n > 0; n-- {
		if u.Spin != nil {
			u.Spin()
		}
	}
}

// Initialize sets the UART to 115200 baud, 8 bits, no interrupts, with both
// transmitter and receiver enabled.
func (u *MiniUART) Initialize() error {
	u.reg(AuxEnables).SetBits(PeripheralMiniUART)

	//turn off the transmitter and receiver
	u.reg(AuxMiniUARTExtraControl).Set(0)

	//see errata for why (bad docs!) uses excuse of compat with 16550
	// https://elinux.org/BCM2835_datasheet_errata#p14
	u.reg(AuxMiniUARTLineControl).SetBits(DataLength8Bits)

	u.reg(AuxMiniUARTModemControl).ClearBits(ReadyToSend) // this asserts the line
	u.reg(AuxMiniUARTInterruptIdentify).ReplaceBits(ClearTransmitFIFO|ClearReceiveFIFO, ClearFIFOsMask, ClearFIFOsShift)
	u.reg(AuxMiniUARTBAUD).Set(MiniUARTBaud115200)
	u.reg(AuxMiniUARTInterruptEnable).ClearBits(ReceiveFIFOReady | TransmitFIFOEmpty | LineStatusError | ModemStatusChange)

	// map UART1 to GPIO pins
	u.GPIO.Setup(14, GPIOAltFunc5)
	u.GPIO.Setup(15, GPIOAltFunc5)

	pud := mmio.Reg(u.GPIO.Bus, u.GPIO.Base, GPIOPullUpDownEnableClk0)
	u.spin(150)
	pud.SetBits((1 << 14) | (1 << 15))
	u.spin(150)
	pud.Set(0) //flush gpio setup

	u.reg(AuxMiniUARTExtraControl).SetBits(ReceiveEnable | TransmitEnable)
	return nil
}

// WriteByte blocks until the FIFO has room, then sends c.
func (u *MiniUART) WriteByte(c byte) error {
	status := u.reg(AuxMiniUARTLineStatus)
	for !status.HasBits(TransmitFIFOSpaceAvailable) {
		u.spin(1)
	}
	u.reg(AuxMiniUARTData).Set(uint32(c)) //really 8 bit write
	return nil
}

// WriteString sends s, turning each newline into CR LF.
func (u *MiniUART) WriteString(s string) (int, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			u.WriteByte('\r')
		}
		u.WriteByte(s[i])
	}
	return len(s), nil
}

// Write makes the console an io.Writer for the logger.
func (u *MiniUART) Write(p []byte) (int, error) {
	return u.WriteString(string(p))
}

// ReadByte blocks until a byte has been received.
func (u *MiniUART) ReadByte() (byte, error) {
	status := u.reg(AuxMiniUARTLineStatus)
	for !status.HasBits(ReceivedDataAvailable) {
		u.spin(1)
	}
	return byte(u.reg(AuxMiniUARTData).Get()), nil //8 bit read
}
