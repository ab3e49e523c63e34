package bootsim_test

import (
	"context"
	"time"

	"github.com/go-logr/logr"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"awaken/src/boot"
	"awaken/src/boot/exception"
	"awaken/src/tools/bootsim"
)

func config(variant, level string) bootsim.Config {
	return bootsim.Config{
		Variant:     variant,
		Level:       level,
		Cores:       4,
		MultiCore:   true,
		SettleDelay: time.Millisecond,
		JumpTarget:  0x80000,
		TableBase:   0x200000,
		Timeout:     5 * time.Second,
	}
}

func states(r *bootsim.Report) []bootsim.State {
	var out []bootsim.State
	for _, c := range r.Cores {
		out = append(out, c.State)
	}
	return out
}

var _ = Describe("Simulate", func() {
	var (
		cfg     bootsim.Config
		metrics *bootsim.Metrics
		report  *bootsim.Report
	)

	BeforeEach(func() {
		cfg = config(bootsim.VariantAArch64, "EL2")
		metrics = bootsim.NewMetrics()
	})

	JustBeforeEach(func() {
		var err error
		report, err = bootsim.Simulate(context.Background(), cfg, logr.Discard(), metrics)
		Expect(err).NotTo(HaveOccurred())
	})

	Context("a 64 bit boot at EL2", func() {
		It("brings every core up in order", func() {
			Expect(report.OK()).To(BeTrue())
			Expect(report.StartOrder).To(Equal([]uint32{0, 1, 2, 3}))
			Expect(states(report)).To(HaveEach(bootsim.Running))
			Expect(report.Violations).To(BeEmpty())
		})

		It("prints the banner once", func() {
			Expect(report.Console).To(HavePrefix(boot.Banner("AArch64")))
		})

		It("leaves the MMU on with the EL2 configuration", func() {
			for _, c := range report.Cores {
				Expect(c.Released).To(BeTrue())
				Expect(c.Registers).To(HaveKeyWithValue("sctlr", "0x30c51835"))
				Expect(c.Registers).To(HaveKeyWithValue("tcr", "0x80903519"))
				Expect(c.Registers).To(HaveKeyWithValue("mair", "0xff440c0400"))
				Expect(c.Registers).To(HaveKeyWithValue("ttbr0", "0x200000"))
				Expect(c.Registers).To(HaveKeyWithValue("hcr", "0x80000000"))
			}
		})

		It("maps the first 2GiB", func() {
			Expect(report.Table).NotTo(BeEmpty())
			Expect(report.Table[0].Start).To(Equal("0x00000000"))
			Expect(report.Table[len(report.Table)-1].End).To(Equal("0x80000000"))
		})
	})

	Context("entered at EL3", func() {
		BeforeEach(func() { cfg.Level = "EL3" })

		It("halts core 0 before anything is printed", func() {
			Expect(report.OK()).To(BeFalse())
			Expect(report.Cores[0].State).To(Equal(bootsim.Halted))
			Expect(report.Cores[0].Reason).To(Equal("unsupported exception level"))
			Expect(states(report)[1:]).To(HaveEach(bootsim.NotReleased))
			Expect(report.Console).To(BeEmpty())
			Expect(report.StartOrder).To(BeEmpty())
			Expect(report.TimedOut).To(BeFalse())
		})
	})

	Context("single core", func() {
		BeforeEach(func() { cfg.MultiCore = false })

		It("never releases the secondaries", func() {
			Expect(report.Cores[0].State).To(Equal(bootsim.Running))
			Expect(states(report)[1:]).To(HaveEach(bootsim.NotReleased))
			Expect(report.StartOrder).To(Equal([]uint32{0}))
			Expect(report.Violations).To(BeEmpty())
		})
	})

	Context("a fatal data abort on core 1", func() {
		BeforeEach(func() {
			cfg.Exceptions = []bootsim.Injection{{
				Core: 1,
				Type: "CurrentElSpxSync",
				ESR:  0x96000046,
				SPSR: 0x3c5,
				FAR:  0x7fe00000,
				ELR:  0x81234,
			}}
		})

		It("halts core 1 and leaves the later cores parked", func() {
			Expect(states(report)).To(Equal([]bootsim.State{
				bootsim.Running, bootsim.Halted, bootsim.NotReleased, bootsim.NotReleased,
			}))
			Expect(report.Cores[1].Reason).To(Equal("fatal exception"))
			Expect(report.StartOrder).To(Equal([]uint32{0, 1}))
		})

		It("prints one diagnostic", func() {
			Expect(report.Console).To(ContainSubstring(
				"ERROR:exception: data abort same EL (write, translation level 2) type=CurrentElSpxSync(0x11) ec=0x25 esr=0x96000046 spsr=0x3c5 far=0x7fe00000 elr=0x81234\n"))
		})
	})

	Context("a debug break on core 2", func() {
		BeforeEach(func() {
			cfg.Exceptions = []bootsim.Injection{{Core: 2, Type: "CurrentElSpxSync", ESR: 0xF2000000}}
		})

		It("halts core 2 without a diagnostic", func() {
			Expect(report.Cores[2].State).To(Equal(bootsim.Halted))
			Expect(report.Cores[2].Reason).To(Equal("debug break"))
			Expect(report.Console).NotTo(ContainSubstring("ERROR:"))
		})
	})

	Context("an interrupt on core 0", func() {
		BeforeEach(func() {
			cfg.Exceptions = []bootsim.Injection{{Core: 0, Type: "CurrentElSpxIrq"}}
		})

		It("is not fatal", func() {
			Expect(report.OK()).To(BeTrue())
			Expect(report.Interrupts).To(BeEmpty())
		})
	})

	Context("an SError on core 1", func() {
		BeforeEach(func() {
			cfg.Exceptions = []bootsim.Injection{{Core: 1, Type: "CurrentElSpxSErr", ESR: 0xBE000000, ELR: 0x80040}}
		})

		It("is reported and the boot carries on", func() {
			Expect(report.OK()).To(BeTrue())
			Expect(report.StartOrder).To(Equal([]uint32{0, 1, 2, 3}))
			Expect(report.Console).To(ContainSubstring("ERROR:exception: system error type=CurrentElSpxSErr(0x14)"))
		})
	})

	Context("interrupts with pending sources", func() {
		BeforeEach(func() {
			cfg.Exceptions = []bootsim.Injection{
				{Core: 1, Type: "CurrentElSpxIrq", Pending: 1 << 29},
				{Core: 3, Type: "LowerEl64SpxIrq", Pending: 1 << 1},
			}
		})

		It("reach the interrupt controller's handler", func() {
			Expect(report.OK()).To(BeTrue())
			Expect(report.Interrupts).To(Equal([]bootsim.Serviced{
				{Core: 1, Pending: 1 << 29},
				{Core: 3, Pending: 1 << 1},
			}))
		})
	})

	Context("a 32 bit boot in supervisor mode", func() {
		BeforeEach(func() {
			cfg = config(bootsim.VariantAArch32, "svc")
			cfg.Trace = true
		})

		It("brings every core up with LPAE enabled", func() {
			Expect(report.OK()).To(BeTrue())
			Expect(report.StartOrder).To(Equal([]uint32{0, 1, 2, 3}))
			for _, c := range report.Cores {
				Expect(c.Registers).To(HaveKeyWithValue("ttbcr", "0x80803500"))
				Expect(c.Registers).To(HaveKeyWithValue("mair0", "0x440c0400"))
				Expect(c.Registers).To(HaveKeyWithValue("mair1", "0xff"))
				Expect(c.Registers).To(HaveKeyWithValue("ttbr0", "0x200000"))
				Expect(c.Trace).NotTo(BeEmpty())
			}
			Expect(report.Table[len(report.Table)-1].End).To(Equal("0x100000000"))
		})
	})

	Context("a 32 bit boot in hypervisor mode", func() {
		BeforeEach(func() { cfg = config(bootsim.VariantAArch32, "hyp") })

		It("halts core 0", func() {
			Expect(report.Cores[0].Reason).To(Equal("unsupported exception level"))
		})
	})
})

func record(i bootsim.Injection) exception.Record {
	r, err := i.Record()
	Expect(err).NotTo(HaveOccurred())
	return r
}

var _ = Describe("Decode", func() {
	It("classifies a diagnostic record", func() {
		d := bootsim.Decode(record(bootsim.Injection{Type: "CurrentElSpxSync", ESR: 0x96000046}))
		Expect(d.Kind).To(Equal("fatal"))
		Expect(d.Class).To(Equal("0x25"))
		Expect(d.Diagnostic).To(HavePrefix("exception: data abort same EL"))
	})

	It("reports SErrors without halting", func() {
		d := bootsim.Decode(record(bootsim.Injection{Type: "LowerEl64SpxSErr"}))
		Expect(d.Kind).To(Equal("reported"))
		Expect(d.Diagnostic).To(HavePrefix("exception: system error"))
	})

	It("has no diagnostic for interrupts", func() {
		d := bootsim.Decode(record(bootsim.Injection{Type: "LowerEl64SpxIrq"}))
		Expect(d.Diagnostic).To(BeEmpty())
	})
})

var _ = Describe("Table", func() {
	It("rejects an unknown variant", func() {
		_, err := bootsim.Table("riscv", 0x200000)
		Expect(err).To(MatchError(bootsim.ErrInvalidConfig))
	})

	It("rejects a misaligned base", func() {
		_, err := bootsim.Table(bootsim.VariantAArch64, 0x200008)
		Expect(err).To(HaveOccurred())
	})
})
