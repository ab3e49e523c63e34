package bootsim

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"awaken/src/boot/mmu"
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/arm-cortex-a53/sim"
	"awaken/src/hardware/bcm2835"
)

// Report is the outcome of one simulated boot.
type Report struct {
	Variant    string       `yaml:"variant"`
	Level      string       `yaml:"level"`
	TimedOut   bool         `yaml:"timedOut,omitempty"`
	Table      []RegionInfo `yaml:"table,omitempty"`
	StartOrder []uint32     `yaml:"startOrder"`
	Cores      []CoreInfo   `yaml:"cores"`
	Interrupts []Serviced   `yaml:"interrupts,omitempty"`
	Console    string       `yaml:"console,omitempty"`
	Violations []string     `yaml:"violations,omitempty"`
}

// Serviced is an interrupt the interrupt controller passed on.
type Serviced struct {
	Core    uint32 `yaml:"core"`
	Pending uint32 `yaml:"pending"`
}

// RegionInfo is one region of the translation table.
type RegionInfo struct {
	Start        string `yaml:"start"`
	End          string `yaml:"end"`
	Attribute    string `yaml:"attribute"`
	Shareability uint8  `yaml:"shareability"`
}

// CoreInfo is the final state of one core.
type CoreInfo struct {
	Core      uint32            `yaml:"core"`
	State     State             `yaml:"state"`
	Reason    string            `yaml:"reason,omitempty"`
	Released  bool              `yaml:"released"`
	Registers map[string]string `yaml:"registers,omitempty"`
	Trace     []string          `yaml:"trace,omitempty"`
}

// OK reports whether every core is running and no invariant was broken.
func (r *Report) OK() bool {
	if r.TimedOut || len(r.Violations) > 0 {
		return false
	}
	for _, c := range r.Cores {
		if c.State != Running {
			return false
		}
	}
	return true
}

// Write encodes the report as YAML.
func (r *Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}

// Regions converts table regions for the report.
func Regions(regions []mmu.Region) []RegionInfo {
	out := make([]RegionInfo, 0, len(regions))
	for _, r := range regions {
		out = append(out, RegionInfo{
			Start:        fmt.Sprintf("0x%08x", r.Start),
			End:          fmt.Sprintf("0x%08x", r.End),
			Attribute:    r.Attribute.String(),
			Shareability: r.Shareability,
		})
	}
	return out
}

func hex(v uint64) string { return fmt.Sprintf("%#x", v) }

func registers64(c *sim.Core64) map[string]string {
	el := c.Level()
	regs := map[string]string{
		"sctlr": hex(c.SCTLR(el)),
		"mair":  hex(c.MAIR(el)),
		"ttbr0": hex(c.TTBR0(el)),
		"tcr":   hex(c.TCR(el)),
	}
	if el == a53.EL2 {
		regs["hcr"] = hex(c.HCR())
	}
	return regs
}

func registers32(c *sim.Core32) map[string]string {
	return map[string]string{
		"sctlr": hex(uint64(c.SCTLR())),
		"actlr": hex(uint64(c.ACTLR())),
		"ttbcr": hex(uint64(c.TTBCR())),
		"mair0": hex(uint64(c.MAIR0())),
		"mair1": hex(uint64(c.MAIR1())),
		"ttbr0": hex(c.TTBR0()),
		"dacr":  hex(uint64(c.DACR())),
	}
}

func opNames(ops []sim.Op) []string {
	out := make([]string, len(ops))
	for i, o := range ops {
		out[i] = o.String()
	}
	return out
}

func (s *simulation) console() string {
	var buf bytes.Buffer
	for _, w := range s.mem.WritesTo(bcm2835.AuxBase + bcm2835.AuxMiniUARTData) {
		if c := byte(w.Value); c != '\r' {
			buf.WriteByte(c)
		}
	}
	return buf.String()
}

func (s *simulation) report(states map[uint32]settled, timedOut bool) *Report {
	r := &Report{
		Variant:    s.cfg.Variant,
		Level:      s.cfg.Level,
		TimedOut:   timedOut,
		StartOrder: append([]uint32(nil), s.started...),
		Interrupts: append([]Serviced(nil), s.serviced...),
		Console:    s.console(),
	}
	if regions, err := s.tables.Regions(); err == nil {
		r.Table = Regions(regions)
		if end := regions[len(regions)-1].End; end != s.tables.Layout().Size() {
			r.Violations = append(r.Violations, fmt.Sprintf("table covers up to %#x, want %#x", end, s.tables.Layout().Size()))
		}
	} else if s.tables.Built() {
		r.Violations = append(r.Violations, err.Error())
	}

	for i, core := range s.started {
		if i > 0 && core < s.started[i-1] {
			r.Violations = append(r.Violations, fmt.Sprintf("core %d started after core %d", core, s.started[i-1]))
		}
	}

	for i := 0; i < s.cfg.Cores; i++ {
		core := uint32(i)
		info := CoreInfo{Core: core, State: NotReleased, Released: core == 0 || s.machines[0].Released(core)}
		if st, ok := states[core]; ok {
			info.State = st.state
			if st.state == Halted {
				info.Reason = st.reason.String()
			}
		}
		if s.regs64 != nil {
			info.Registers = registers64(s.regs64[i])
			if s.cfg.Trace {
				info.Trace = opNames(s.regs64[i].Trace())
			}
		} else {
			info.Registers = registers32(s.regs32[i])
			if s.cfg.Trace {
				info.Trace = opNames(s.regs32[i].Trace())
			}
		}
		if info.State != NotReleased && !info.Released {
			r.Violations = append(r.Violations, fmt.Sprintf("core %d ran without being released", core))
		}
		r.Cores = append(r.Cores, info)
	}
	return r
}
