package bootsim

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"awaken/src/boot"
	"awaken/src/boot/exception"
	"awaken/src/boot/halt"
	"awaken/src/boot/mmu"
	"awaken/src/hardware/arm-cortex-a53/sim"
	"awaken/src/hardware/bcm2835"
	"awaken/src/lib/mmio"
	"awaken/src/lib/trust"
)

// State is where a core ended up.
type State string

const (
	Running     State = "running"
	Halted      State = "halted"
	NotReleased State = "not released"
)

type injection struct {
	record  exception.Record
	pending uint32
}

// stopped unwinds the goroutine of a core that halted or is done running.
type stopped struct{}

type settled struct {
	core   uint32
	state  State
	reason halt.Reason
}

// simulation is one boot of the whole machine.
type simulation struct {
	cfg     Config
	log     logr.Logger
	metrics *Metrics

	mem        *mmio.Memory
	tables     *mmu.Builder
	machines   []*boot.Machine
	orch       []*boot.Orchestrator
	regs64     []*sim.Core64
	regs32     []*sim.Core32
	injections map[uint32][]injection

	// ctx ends the run hooks and the wait of cores never released
	ctx     context.Context
	settled chan settled

	mu       sync.Mutex
	wakeup   *sync.Cond
	started  []uint32
	serviced []Serviced
}

func newSimulation(ctx context.Context, cfg Config, log logr.Logger, m *Metrics) (*simulation, error) {
	s := &simulation{
		cfg:        cfg,
		log:        log,
		metrics:    m,
		mem:        mmio.NewMemory(),
		ctx:        ctx,
		settled:    make(chan settled, cfg.Cores),
		injections: make(map[uint32][]injection),
	}
	s.wakeup = sync.NewCond(&s.mu)
	for _, inj := range cfg.Exceptions {
		r, err := inj.Record()
		if err != nil {
			return nil, err
		}
		s.injections[inj.Core] = append(s.injections[inj.Core], injection{record: r, pending: inj.Pending})
	}

	// the console always has room and the system timer follows the host clock
	s.mem.OnRead32(bcm2835.AuxBase+bcm2835.AuxMiniUARTLineStatus, func() uint32 {
		return bcm2835.TransmitFIFOSpaceAvailable | bcm2835.TransmitterIdle
	})
	epoch := time.Now()
	micros := func() uint64 { return uint64(time.Since(epoch).Microseconds()) }
	s.mem.OnRead32(bcm2835.SysTimerBase+bcm2835.SysTimerFreeRunningLower32, func() uint32 { return uint32(micros()) })
	s.mem.OnRead32(bcm2835.SysTimerBase+bcm2835.SysTimerFreeRunningHigher32, func() uint32 { return uint32(micros() >> 32) })

	uart := bcm2835.NewMiniUART(s.mem)
	uart.Spin = runtime.Gosched
	console := trust.New(trust.Serialize(uart), trust.All)
	dispatcher := exception.NewDispatcher(console, halt.Func(s.halt))

	layout := mmu.AArch64Layout
	if cfg.Variant == VariantAArch32 {
		layout = mmu.AArch32Layout
	}
	s.tables = mmu.NewBuilder(&mmu.Table{}, uintptr(cfg.TableBase), layout)

	for core := 0; core < cfg.Cores; core++ {
		var m *boot.Machine
		if cfg.Variant == VariantAArch32 {
			mode, err := cfg.Mode()
			if err != nil {
				return nil, err
			}
			regs := sim.NewCore32(mode)
			regs.OnSEV(s.wake)
			s.regs32 = append(s.regs32, regs)
			m = boot.NewAArch32(regs, s.mem, s.tables, cfg.JumpTarget, dispatcher)
		} else {
			el, err := cfg.ExceptionLevel()
			if err != nil {
				return nil, err
			}
			regs := sim.NewCore64(el)
			regs.OnSEV(s.wake)
			s.regs64 = append(s.regs64, regs)
			m = boot.NewAArch64(regs, s.mem, s.tables, cfg.JumpTarget, dispatcher)
		}
		s.machines = append(s.machines, m)
		s.orch = append(s.orch, boot.New(m, halt.Func(s.halt),
			boot.WithConsole(uart),
			boot.WithSleeper(bcm2835.SysTimer{Bus: s.mem, Base: bcm2835.SysTimerBase}),
			boot.WithInterruptManager(bcm2835.InterruptController{Bus: s.mem, Base: bcm2835.InterruptControllerBase, Handler: s.interrupt}),
			boot.WithLogger(console),
			boot.WithHooks(s.startup, s.run),
			boot.WithMultiCore(cfg.MultiCore),
			boot.WithSettleDelay(cfg.SettleDelay),
		))
	}
	return s, nil
}

// wake is the sev of every core.
func (s *simulation) wake() {
	s.mu.Lock()
	s.wakeup.Broadcast()
	s.mu.Unlock()
}

// waitRelease parks core until its boot slot is written, like the firmware
// spin loop. It reports false if the simulation ended first.
func (s *simulation) waitRelease(core uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for !s.machines[0].Released(core) {
		if s.ctx.Err() != nil {
			return false
		}
		s.wakeup.Wait()
	}
	return true
}

func (s *simulation) startup(core uint32) {
	s.mu.Lock()
	s.started = append(s.started, core)
	s.mu.Unlock()
	s.metrics.started.Inc()
	s.log.V(1).Info("core started", "core", core)

	for _, inj := range s.injections[core] {
		r := inj.record
		s.mem.Write32(bcm2835.InterruptControllerBase+bcm2835.IRQPending1, inj.pending)
		c := exception.Classify(r)
		s.metrics.exceptions.WithLabelValues(c.Kind.String(), c.Condition.String()).Inc()
		s.log.V(1).Info("raising exception", "core", core, "type", r.Type.String(), "classification", c.String())
		s.machines[core].Handle(core, r)
	}
}

func (s *simulation) interrupt(core, pending uint32) {
	s.mu.Lock()
	s.serviced = append(s.serviced, Serviced{Core: core, Pending: pending})
	s.mu.Unlock()
	s.metrics.interrupts.Inc()
	s.log.V(1).Info("interrupt serviced", "core", core, "pending", pending)
}

func (s *simulation) run(core uint32) {
	s.settled <- settled{core: core, state: Running}
	<-s.ctx.Done()
	// the run hook of a real kernel never returns
	panic(stopped{})
}

func (s *simulation) halt(core uint32, r halt.Reason) {
	s.metrics.halts.WithLabelValues(r.String()).Inc()
	s.log.Info("core halted", "core", core, "reason", r.String())
	s.settled <- settled{core: core, state: Halted, reason: r}
	panic(stopped{})
}

// doomed reports whether the boot can make no more progress: every core
// settled, or the first core that did not is parked and its predecessor
// settled without releasing it.
func (s *simulation) doomed(states map[uint32]settled) bool {
	for core := uint32(0); int(core) < s.cfg.Cores; core++ {
		if _, ok := states[core]; ok {
			continue
		}
		if core == 0 {
			return false
		}
		_, prev := states[core-1]
		return prev && !s.machines[0].Released(core)
	}
	return true
}

// Simulate boots the configured machine and reports how it went. It returns
// an error only if the simulation itself could not run; a boot that fails is
// described by the report.
func Simulate(ctx context.Context, cfg Config, log logr.Logger, m *Metrics) (*Report, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if m == nil {
		m = NewMetrics()
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	s, err := newSimulation(runCtx, cfg, log, m)
	if err != nil {
		return nil, err
	}
	stopWake := context.AfterFunc(runCtx, s.wake)
	defer stopWake()

	m.boots.Inc()
	begin := time.Now()
	var g errgroup.Group
	for i := 0; i < cfg.Cores; i++ {
		core := uint32(i)
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					if _, ok := r.(stopped); !ok {
						err = fmt.Errorf("core %d: %v", core, r)
					}
				}
			}()
			if core > 0 && !s.waitRelease(core) {
				s.settled <- settled{core: core, state: NotReleased}
				return nil
			}
			s.orch[core].Enter(core)
			return fmt.Errorf("core %d left the boot path", core)
		})
	}

	states := make(map[uint32]settled)
	timedOut := false
collect:
	for !s.doomed(states) {
		select {
		case ev := <-s.settled:
			states[ev.core] = ev
		case <-ctx.Done():
			timedOut = true
			break collect
		}
	}
	m.duration.Observe(time.Since(begin).Seconds())
	stopRun()
	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(s.settled)
	for ev := range s.settled {
		states[ev.core] = ev
	}

	for core := 1; core < cfg.Cores; core++ {
		if s.machines[0].Released(uint32(core)) {
			m.released.Inc()
		}
	}
	return s.report(states, timedOut), nil
}
