// Package sim provides simulated Cortex-A53 system registers for running the
// boot path on a host. Every instruction a core executes through the
// arm_cortex_a53 interfaces is appended to its trace.
package sim

import (
	"fmt"
	"sync"

	a53 "awaken/src/hardware/arm-cortex-a53"
)

// Op is one executed instruction. Name is the mnemonic with its register
// operand, e.g. "msr sctlr_el1"; Value is the written value, if any.
type Op struct {
	Name  string
	Value uint64
}

func (o Op) String() string {
	if o.Value == 0 && !writes(o.Name) {
		return o.Name
	}
	return fmt.Sprintf("%s %#x", o.Name, o.Value)
}

func writes(name string) bool {
	return len(name) > 3 && (name[:3] == "msr" || name[:3] == "mcr")
}

type trace struct {
	mu  sync.Mutex
	ops []Op
	sev func()
	dc  func()
	dcl func(addr uintptr)
}

func (t *trace) record(name string, v uint64) {
	t.mu.Lock()
	t.ops = append(t.ops, Op{Name: name, Value: v})
	t.mu.Unlock()
}

// Trace returns a copy of the executed instructions, oldest first.
func (t *trace) Trace() []Op {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Op, len(t.ops))
	copy(out, t.ops)
	return out
}

// Names returns the trace reduced to mnemonics.
func (t *trace) Names() []string {
	ops := t.Trace()
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.Name
	}
	return out
}

// Reset drops the recorded trace.
func (t *trace) Reset() {
	t.mu.Lock()
	t.ops = nil
	t.mu.Unlock()
}

// OnSEV registers f to run after every sev, which is how the simulator wakes
// parked cores.
func (t *trace) OnSEV(f func()) { t.sev = f }

// OnCleanInvalidate registers f to run on a full data cache clean.
func (t *trace) OnCleanInvalidate(f func()) { t.dc = f }

// OnCleanLine registers f to run on a single line clean.
func (t *trace) OnCleanLine(f func(addr uintptr)) { t.dcl = f }

func (t *trace) Nop()      { t.record("nop", 0) }
func (t *trace) DSB()      { t.record("dsb sy", 0) }
func (t *trace) DSBStore() { t.record("dsb ishst", 0) }
func (t *trace) ISB()      { t.record("isb", 0) }

func (t *trace) SEV() {
	t.record("sev", 0)
	if t.sev != nil {
		t.sev()
	}
}

func (t *trace) CleanInvalidateDCache() {
	t.record("dc cisw", 0)
	if t.dc != nil {
		t.dc()
	}
}

func (t *trace) CleanDCacheLine(addr uintptr) {
	t.record("dc cvac", uint64(addr))
	if t.dcl != nil {
		t.dcl(addr)
	}
}

// Core64 is an AArch64 core. Registers start at their reset values except
// SCTLR, which starts with only its RES1 bits set.
type Core64 struct {
	trace
	el    a53.ExceptionLevel
	sctlr [4]uint64
	mair  [4]uint64
	ttbr0 [4]uint64
	tcr   [4]uint64
	hcr   uint64
}

// NewCore64 returns a core executing at el.
func NewCore64(el a53.ExceptionLevel) *Core64 {
	c := &Core64{el: el, hcr: a53.HypervisorConfigurationRegisterRW}
	c.sctlr[1] = a53.SystemControlRegisterEL1Reserved
	c.sctlr[2] = a53.SystemControlRegisterEL2Reserved
	return c
}

func (c *Core64) Level() a53.ExceptionLevel { return c.el }

func (c *Core64) CurrentEL() uint64 {
	c.record("mrs currentel", 0)
	return a53.CurrentELValue(c.el)
}

func reg(name string, el a53.ExceptionLevel) string {
	return fmt.Sprintf("%s_el%d", name, uint8(el))
}

func (c *Core64) ReadSCTLR(el a53.ExceptionLevel) uint64 {
	c.record("mrs "+reg("sctlr", el), 0)
	return c.sctlr[el&3]
}

func (c *Core64) WriteSCTLR(el a53.ExceptionLevel, v uint64) {
	c.record("msr "+reg("sctlr", el), v)
	c.sctlr[el&3] = v
}

func (c *Core64) WriteMAIR(el a53.ExceptionLevel, v uint64) {
	c.record("msr "+reg("mair", el), v)
	c.mair[el&3] = v
}

func (c *Core64) WriteTTBR0(el a53.ExceptionLevel, v uint64) {
	c.record("msr "+reg("ttbr0", el), v)
	c.ttbr0[el&3] = v
}

func (c *Core64) WriteTCR(el a53.ExceptionLevel, v uint64) {
	c.record("msr "+reg("tcr", el), v)
	c.tcr[el&3] = v
}

func (c *Core64) ReadHCR() uint64 {
	c.record("mrs hcr_el2", 0)
	return c.hcr
}

func (c *Core64) WriteHCR(v uint64) {
	c.record("msr hcr_el2", v)
	c.hcr = v
}

// SCTLR, MAIR, TTBR0, TCR and HCR return register contents without tracing.
func (c *Core64) SCTLR(el a53.ExceptionLevel) uint64 { return c.sctlr[el&3] }
func (c *Core64) MAIR(el a53.ExceptionLevel) uint64  { return c.mair[el&3] }
func (c *Core64) TTBR0(el a53.ExceptionLevel) uint64 { return c.ttbr0[el&3] }
func (c *Core64) TCR(el a53.ExceptionLevel) uint64   { return c.tcr[el&3] }
func (c *Core64) HCR() uint64                        { return c.hcr }

// Core32 is an AArch32 core in the given CPSR mode.
type Core32 struct {
	trace
	cpsr  uint32
	sctlr uint32
	actlr uint32
	ttbcr uint32
	mair0 uint32
	mair1 uint32
	ttbr0 uint64
	dacr  uint32
}

// NewCore32 returns a core running in mode (one of the ProgramStatusMode
// constants) with interrupts masked.
func NewCore32(mode uint32) *Core32 {
	return &Core32{
		cpsr:  0x1C0 | mode&a53.ProgramStatusModeMask,
		sctlr: 0x00C5_0878,
	}
}

func (c *Core32) CPSR() uint32 {
	c.record("mrs cpsr", 0)
	return c.cpsr
}

func (c *Core32) ReadSCTLR() uint32 {
	c.record("mrc sctlr", 0)
	return c.sctlr
}

func (c *Core32) WriteSCTLR(v uint32) {
	c.record("mcr sctlr", uint64(v))
	c.sctlr = v
}

func (c *Core32) ReadACTLR() uint32 {
	c.record("mrc actlr", 0)
	return c.actlr
}

func (c *Core32) WriteACTLR(v uint32) {
	c.record("mcr actlr", uint64(v))
	c.actlr = v
}

func (c *Core32) WriteTTBCR(v uint32) {
	c.record("mcr ttbcr", uint64(v))
	c.ttbcr = v
}

func (c *Core32) WriteMAIR0(v uint32) {
	c.record("mcr mair0", uint64(v))
	c.mair0 = v
}

func (c *Core32) WriteMAIR1(v uint32) {
	c.record("mcr mair1", uint64(v))
	c.mair1 = v
}

func (c *Core32) WriteTTBR0(v uint64) {
	c.record("mcrr ttbr0", v)
	c.ttbr0 = v
}

func (c *Core32) WriteDACR(v uint32) {
	c.record("mcr dacr", uint64(v))
	c.dacr = v
}

func (c *Core32) SCTLR() uint32 { return c.sctlr }
func (c *Core32) ACTLR() uint32 { return c.actlr }
func (c *Core32) TTBCR() uint32 { return c.ttbcr }
func (c *Core32) MAIR0() uint32 { return c.mair0 }
func (c *Core32) MAIR1() uint32 { return c.mair1 }
func (c *Core32) TTBR0() uint64 { return c.ttbr0 }
func (c *Core32) DACR() uint32  { return c.dacr }

var (
	_ a53.SystemRegisters64 = (*Core64)(nil)
	_ a53.SystemRegisters32 = (*Core32)(nil)
)
