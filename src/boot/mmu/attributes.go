package mmu

import (
	"fmt"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// Attribute is a memory attribute index, the AttrIndx field of a block
// descriptor. The encodings live in MAIR.
type Attribute uint8

const (
	DeviceNGnRnE Attribute = iota
	DeviceNGnRE
	DeviceGRE
	NormalNonCacheable
	NormalWriteBack

	attributeCount
)

var attributeEncoding = [attributeCount]uint64{
	DeviceNGnRnE:       a53.MemoryAttributeDeviceNGnRnE,
	DeviceNGnRE:        a53.MemoryAttributeDeviceNGnRE,
	DeviceGRE:          a53.MemoryAttributeDeviceGRE,
	NormalNonCacheable: a53.MemoryAttributeNormalNonCacheable,
	NormalWriteBack:    a53.MemoryAttributeNormalWriteBack,
}

var attributeNames = [attributeCount]string{
	DeviceNGnRnE:       "device-nGnRnE",
	DeviceNGnRE:        "device-nGnRE",
	DeviceGRE:          "device-GRE",
	NormalNonCacheable: "normal-noncacheable",
	NormalWriteBack:    "normal-writeback",
}

func (a Attribute) Valid() bool {
	return a < attributeCount
}

// Encoding is the MAIR byte of the attribute.
func (a Attribute) Encoding() uint64 {
	if !a.Valid() {
		return 0
	}
	return attributeEncoding[a]
}

func (a Attribute) String() string {
	if !a.Valid() {
		return fmt.Sprintf("Attribute(%d)", uint8(a))
	}
	return attributeNames[a]
}

// MAIR is the value of MAIR_ELx holding every attribute at its index. On
// AArch32 the low word goes to MAIR0 and the high word to MAIR1.
func MAIR() uint64 {
	var v uint64
	for a := Attribute(0); a < attributeCount; a++ {
		v |= a.Encoding() << (uint(a) * a53.MemoryAttributeFieldWidth)
	}
	return v
}
