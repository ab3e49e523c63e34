package mmu

import "fmt"

const (
	descriptorValid          = 0b01
	descriptorBlock          = 0b01 // level 1/2 block
	descriptorTable          = 0b11 // next level table
	descriptorTypeMask       = 0b11
	descriptorAttrShift      = 2
	descriptorAttrMask       = 0x7
	descriptorShareShift     = 8
	descriptorShareMask      = 0x3
	descriptorInnerShareable = 0b11
	descriptorAccessFlag     = 1 << 10
	descriptorNSTable        = 1 << 63
	descriptorAddressMask    = 0x0000_FFFF_FFFF_F000
	blockAddressMask         = 0x0000_FFFF_FFE0_0000
)

// Descriptor is a long format translation table entry.
type Descriptor uint64

// TableDescriptor points at a next level table at addr.
func TableDescriptor(addr uint64) Descriptor {
	return Descriptor(descriptorNSTable | addr&descriptorAddressMask | descriptorTable)
}

func (d Descriptor) Valid() bool   { return d&descriptorValid != 0 }
func (d Descriptor) IsTable() bool { return d&descriptorTypeMask == descriptorTable }
func (d Descriptor) IsBlock() bool { return d&descriptorTypeMask == descriptorBlock }

// Address is the output address of a block or the next table of a table.
func (d Descriptor) Address() uint64 {
	if d.IsBlock() {
		return uint64(d) & blockAddressMask
	}
	return uint64(d) & descriptorAddressMask
}

func (d Descriptor) Attribute() Attribute {
	return Attribute((d >> descriptorAttrShift) & descriptorAttrMask)
}

// Shareability is the SH field: 0 non, 2 outer, 3 inner shareable.
func (d Descriptor) Shareability() uint8 {
	return uint8((d >> descriptorShareShift) & descriptorShareMask)
}

func (d Descriptor) AccessFlag() bool { return d&descriptorAccessFlag != 0 }
func (d Descriptor) NSTable() bool    { return d&descriptorNSTable != 0 }

func (d Descriptor) String() string {
	switch {
	case !d.Valid():
		return "invalid"
	case d.IsTable():
		return fmt.Sprintf("table %#x", d.Address())
	}
	return fmt.Sprintf("block %#x %s sh=%d af=%t", d.Address(), d.Attribute(), d.Shareability(), d.AccessFlag())
}
