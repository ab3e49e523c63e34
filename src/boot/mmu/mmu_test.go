package mmu

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/arm-cortex-a53/sim"
)

const testBase = uintptr(0x0020_0000)

func TestMAIR(t *testing.T) {
	if got := MAIR(); got != 0x0000_00FF_440C_0400 {
		t.Errorf("MAIR: got %#x", got)
	}
}

func TestBlock(t *testing.T) {
	tests := []struct {
		index int
		want  uint64
	}{
		{0, 0x711},
		{1, 0x20_0711},
		{503, 503<<21 | 0x711},
		{504, 0x3F00_0401},
		{1023, 1023<<21 | 0x401},
	}
	for _, tt := range tests {
		if got := Block(AArch64Layout, tt.index); got != tt.want {
			t.Errorf("Block(%d): got %#x want %#x", tt.index, got, tt.want)
		}
	}
}

func TestBlockIsPure(t *testing.T) {
	for i := 0; i < AArch32Layout.Blocks(); i++ {
		d := Descriptor(Block(AArch32Layout, i))
		if d.Address() != uint64(i)*BlockSize {
			t.Fatalf("block %d maps %#x", i, d.Address())
		}
		if !d.Attribute().Valid() {
			t.Fatalf("block %d attribute %d out of range", i, d.Attribute())
		}
		if !d.AccessFlag() || !d.IsBlock() {
			t.Fatalf("block %d: %s", i, d)
		}
		if Block(AArch32Layout, i) != uint64(d) {
			t.Fatalf("block %d not deterministic", i)
		}
	}
}

func TestRegions(t *testing.T) {
	tests := []struct {
		layout Layout
		want   []Region
	}{
		{AArch64Layout, []Region{
			{Start: 0, End: 0x3F00_0000, Attribute: NormalWriteBack, Shareability: 3},
			{Start: 0x3F00_0000, End: 0x8000_0000, Attribute: DeviceNGnRnE},
		}},
		{AArch32Layout, []Region{
			{Start: 0, End: 0x3F00_0000, Attribute: NormalWriteBack, Shareability: 3},
			{Start: 0x3F00_0000, End: 0x1_0000_0000, Attribute: DeviceNGnRnE},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.layout.Name, func(t *testing.T) {
			b := NewBuilder(&Table{}, testBase, tt.layout)
			if err := b.Build(); err != nil {
				t.Fatal(err)
			}
			got, err := b.Regions()
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("regions (-want +got):\n%s", diff)
			}
			if got[len(got)-1].End != tt.layout.Size() {
				t.Errorf("coverage ends at %#x, want %#x", got[len(got)-1].End, tt.layout.Size())
			}
		})
	}
}

func TestRegionString(t *testing.T) {
	tests := []struct {
		r    Region
		want string
	}{
		{Region{Start: 0, End: 0x3F00_0000, Attribute: NormalWriteBack, Shareability: 3},
			"[0x00000000, 0x3f000000) " + NormalWriteBack.String() + " sh=3"},
		{Region{Start: 0x3F00_0000, End: 0x8000_0000, Attribute: DeviceNGnRnE},
			"[0x3f000000, 0x80000000) " + DeviceNGnRnE.String() + " sh=0"},
		{Region{Start: 0x3F00_0000, End: 0x1_0000_0000, Attribute: DeviceNGnRnE},
			"[0x3f000000, 0x100000000) " + DeviceNGnRnE.String() + " sh=0"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestTopLevelLinks(t *testing.T) {
	tbl := &Table{}
	b := NewBuilder(tbl, testBase, AArch64Layout)
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < AArch64Layout.TopSlots; i++ {
		d := Descriptor(tbl.Top[i])
		if !d.IsTable() || !d.NSTable() || d.Address() != SecondAddress(testBase, i) {
			t.Errorf("top %d: %#x", i, tbl.Top[i])
		}
	}
	for i := AArch64Layout.TopSlots; i < EntriesPerTable; i++ {
		if tbl.Top[i] != 0 {
			t.Errorf("top %d should be invalid: %#x", i, tbl.Top[i])
		}
	}
}

func TestBuildOnce(t *testing.T) {
	tbl := &Table{}
	b := NewBuilder(tbl, testBase, AArch64Layout)
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}
	tbl.Second[0][0] = 0xDEAD
	if err := b.Build(); !errors.Is(err, ErrAlreadyBuilt) {
		t.Fatalf("second build: %v", err)
	}
	if tbl.Second[0][0] != 0xDEAD {
		t.Errorf("second build wrote the table")
	}
}

func TestBuildErrors(t *testing.T) {
	if err := NewBuilder(&Table{}, testBase+8, AArch64Layout).Build(); !errors.Is(err, ErrMisaligned) {
		t.Errorf("misaligned: %v", err)
	}
	if err := NewBuilder(&Table{}, testBase, Layout{TopSlots: 5}).Build(); !errors.Is(err, ErrBadLayout) {
		t.Errorf("layout: %v", err)
	}
	if _, err := NewBuilder(&Table{}, testBase, AArch64Layout).Regions(); !errors.Is(err, ErrNotBuilt) {
		t.Errorf("regions before build: %v", err)
	}
}

func TestRegionsDetectsCorruption(t *testing.T) {
	tbl := &Table{}
	b := NewBuilder(tbl, testBase, AArch64Layout)
	if err := b.Build(); err != nil {
		t.Fatal(err)
	}
	tbl.Second[1][7] = 0
	if _, err := b.Regions(); err == nil {
		t.Error("hole in the table not reported")
	}
}

func TestTranslationControl(t *testing.T) {
	if got := TranslationControlEL1(); got != 0x20_B599_3519 {
		t.Errorf("TCR_EL1: got %#x", got)
	}
	if got := TranslationControlEL2(); got != 0x8090_3519 {
		t.Errorf("TCR_EL2: got %#x", got)
	}
	if TranslationTableControl != 0x8080_3500 {
		t.Errorf("TTBCR: got %#x", TranslationTableControl)
	}
}

func names(ops []sim.Op) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.Name
	}
	return out
}

func TestAArch64InitializeEL1(t *testing.T) {
	core := sim.NewCore64(a53.EL1)
	b := NewBuilder(&Table{}, testBase, AArch64Layout)
	m := &AArch64{Regs: core, Tables: b}

	if err := m.Initialize(0); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"mrs currentel",
		"mrs sctlr_el1", "msr sctlr_el1",
		"nop", "nop", "dsb sy", "isb",
		"dsb ishst",
		"msr mair_el1", "msr ttbr0_el1", "msr tcr_el1", "msr sctlr_el1",
		"nop", "nop", "dsb sy", "isb",
	}
	if diff := cmp.Diff(want, core.Names()); diff != "" {
		t.Errorf("instructions (-want +got):\n%s", diff)
	}
	if !b.Built() {
		t.Error("core 0 did not build the table")
	}
	if core.SCTLR(a53.EL1) != a53.SystemControlRegisterValueMMUEnabled {
		t.Errorf("SCTLR_EL1 %#x", core.SCTLR(a53.EL1))
	}
	if core.TTBR0(a53.EL1) != uint64(testBase) || core.MAIR(a53.EL1) != MAIR() {
		t.Errorf("TTBR0 %#x MAIR %#x", core.TTBR0(a53.EL1), core.MAIR(a53.EL1))
	}
	if core.Trace()[2].Value != a53.SystemControlRegisterEL1Reserved {
		t.Errorf("disable did not keep RES1 bits: %s", core.Trace()[2])
	}
}

func TestAArch64InitializeEL2(t *testing.T) {
	core := sim.NewCore64(a53.EL2)
	m := &AArch64{Regs: core, Tables: NewBuilder(&Table{}, testBase, AArch64Layout)}

	if err := m.Initialize(1); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"mrs currentel",
		"mrs sctlr_el2", "msr sctlr_el2",
		"nop", "nop", "dsb sy", "isb",
		"msr mair_el2", "msr ttbr0_el2", "msr tcr_el2",
		"mrs hcr_el2", "msr hcr_el2",
		"msr sctlr_el2",
		"nop", "nop", "dsb sy", "isb",
	}
	if diff := cmp.Diff(want, core.Names()); diff != "" {
		t.Errorf("instructions (-want +got):\n%s", diff)
	}
	if m.Tables.Built() {
		t.Error("core 1 built the table")
	}
	if core.HCR() != a53.HypervisorConfigurationRegisterRW {
		t.Errorf("HCR_EL2 %#x, want RW kept and DC/VM clear", core.HCR())
	}
	if core.TCR(a53.EL2) != 0x8090_3519 || core.SCTLR(a53.EL2) != 0x30C5_1835 {
		t.Errorf("TCR_EL2 %#x SCTLR_EL2 %#x", core.TCR(a53.EL2), core.SCTLR(a53.EL2))
	}
}

func TestAArch64UnsupportedLevel(t *testing.T) {
	for _, el := range []a53.ExceptionLevel{a53.EL0, a53.EL3} {
		core := sim.NewCore64(el)
		m := &AArch64{Regs: core, Tables: NewBuilder(&Table{}, testBase, AArch64Layout)}
		if err := m.Initialize(0); !errors.Is(err, ErrUnsupportedLevel) {
			t.Errorf("%s: %v", el, err)
		}
		if diff := cmp.Diff([]string{"mrs currentel"}, names(core.Trace())); diff != "" {
			t.Errorf("%s wrote registers:\n%s", el, diff)
		}
		if m.Tables.Built() {
			t.Errorf("%s built the table", el)
		}
	}
}

func TestAArch64Disable(t *testing.T) {
	core := sim.NewCore64(a53.EL1)
	core.WriteSCTLR(a53.EL1, a53.SystemControlRegisterValueMMUEnabled|a53.SystemControlRegisterAlignmentCheck)
	core.Reset()
	m := &AArch64{Regs: core, Tables: NewBuilder(&Table{}, testBase, AArch64Layout)}

	if err := m.Disable(); err != nil {
		t.Fatal(err)
	}
	want := uint64(a53.SystemControlRegisterEL1Reserved | a53.SystemControlRegisterAlignmentCheck)
	if core.SCTLR(a53.EL1) != want {
		t.Errorf("SCTLR_EL1 %#x want %#x", core.SCTLR(a53.EL1), want)
	}
	if m.Tables.Built() {
		t.Error("disable touched the table")
	}
}

func TestAArch32Initialize(t *testing.T) {
	core := sim.NewCore32(a53.ProgramStatusModeSupervisor)
	b := NewBuilder(&Table{}, testBase, AArch32Layout)
	m := &AArch32{Regs: core, Tables: b}

	if err := m.Initialize(0); err != nil {
		t.Fatal(err)
	}
	want := []string{
		"mrs cpsr",
		"mrc sctlr", "mcr sctlr",
		"nop", "nop", "dsb sy", "isb",
		"mrc actlr", "mcr actlr",
		"dsb ishst",
		"mcr ttbcr", "mcr mair0", "mcr mair1", "mcrr ttbr0", "mcr dacr",
		"mrc sctlr", "mcr sctlr",
		"nop", "nop", "dsb sy", "isb",
	}
	if diff := cmp.Diff(want, core.Names()); diff != "" {
		t.Errorf("instructions (-want +got):\n%s", diff)
	}
	if core.MAIR0() != 0x440C_0400 || core.MAIR1() != 0xFF {
		t.Errorf("MAIR0 %#x MAIR1 %#x", core.MAIR0(), core.MAIR1())
	}
	if core.TTBCR() != 0x8080_3500 || core.DACR() != 0xFFFF_FFFF || core.ACTLR()&3 != 3 {
		t.Errorf("TTBCR %#x DACR %#x ACTLR %#x", core.TTBCR(), core.DACR(), core.ACTLR())
	}
	if core.SCTLR()&a53.SystemControlRegisterMMUAndCaches != a53.SystemControlRegisterMMUAndCaches {
		t.Errorf("SCTLR %#x", core.SCTLR())
	}
	if regions, err := b.Regions(); err != nil || regions[len(regions)-1].End != 1<<32 {
		t.Errorf("regions %v, %v", regions, err)
	}
}

func TestAArch32RejectsHyp(t *testing.T) {
	core := sim.NewCore32(a53.ProgramStatusModeHypervisor)
	m := &AArch32{Regs: core, Tables: NewBuilder(&Table{}, testBase, AArch32Layout)}
	if err := m.Initialize(0); !errors.Is(err, ErrUnsupportedLevel) {
		t.Errorf("HYP: %v", err)
	}
	if len(core.Trace()) != 1 {
		t.Errorf("HYP wrote registers: %v", core.Trace())
	}
}
