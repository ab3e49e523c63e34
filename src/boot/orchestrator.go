// Package boot is the first Go code a core runs. Every core enters through
// Orchestrator.Enter: it turns its MMU on, core 0 sets up the console and
// the interrupt manager, the kernel's startup hook runs, the next core is
// released and the kernel's run hook takes over for good.
package boot

import (
	"errors"
	"fmt"
	"time"

	"awaken/src/boot/exception"
	"awaken/src/boot/halt"
	"awaken/src/boot/mmu"
	"awaken/src/lib/trust"
)

// Console is the serial console core 0 brings up.
type Console interface {
	Initialize() error
	WriteString(s string) (int, error)
}

// Sleeper waits at least d.
type Sleeper interface {
	Sleep(d time.Duration)
}

// InterruptManager is initialized once by core 0, after the console. It is
// handed the registration point of the interrupt handler and may install
// its own.
type InterruptManager interface {
	Initialize(register func(exception.ISR)) error
}

// Hook is kernel code run by every core.
type Hook func(core uint32)

// DefaultSettleDelay lets the console settle before anything else is printed.
const DefaultSettleDelay = 10 * time.Millisecond

type noSleep struct{}

func (noSleep) Sleep(time.Duration) {}

// Orchestrator runs the boot sequence of each core.
type Orchestrator struct {
	variant   Variant
	halt      halt.Halter
	console   Console
	sleeper   Sleeper
	irq       InterruptManager
	log       trust.Logger
	startup   Hook
	run       Hook
	multiCore bool
	settle    time.Duration
}

type Option func(*Orchestrator)

func WithConsole(c Console) Option { return func(o *Orchestrator) { o.console = c } }

func WithSleeper(s Sleeper) Option { return func(o *Orchestrator) { o.sleeper = s } }

func WithInterruptManager(m InterruptManager) Option {
	return func(o *Orchestrator) { o.irq = m }
}

func WithLogger(l trust.Logger) Option { return func(o *Orchestrator) { o.log = l } }

// WithHooks sets the startup and run hooks; nil leaves a hook unset.
func WithHooks(startup, run Hook) Option {
	return func(o *Orchestrator) {
		o.startup = startup
		o.run = run
	}
}

// WithMultiCore controls whether each core releases the next one.
func WithMultiCore(on bool) Option { return func(o *Orchestrator) { o.multiCore = on } }

func WithSettleDelay(d time.Duration) Option { return func(o *Orchestrator) { o.settle = d } }

// New returns an orchestrator for v. Without options it has no console, no
// interrupt manager and no hooks, and runs multi core.
func New(v Variant, h halt.Halter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		variant:   v,
		halt:      h,
		sleeper:   noSleep{},
		log:       trust.Discard,
		multiCore: true,
		settle:    DefaultSettleDelay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Logger is the boot log; kernel hooks may keep using it.
func (o *Orchestrator) Logger() trust.Logger { return o.log }

// SetInterruptHandler replaces the handler interrupts on every core go to;
// nil restores the default, which ignores them.
func (o *Orchestrator) SetInterruptHandler(isr exception.ISR) {
	o.variant.SetInterruptHandler(isr)
}

// Banner is printed by core 0 once the console is up.
func Banner(variant string) string {
	return fmt.Sprintf("\n########## awaken ----- Bootstrapper @ %s ----- ##########\n", variant)
}

// Enter boots core. On the device it never returns: the run hook does not
// return, and everything that stops the boot halts the core. A run hook
// that returns anyway panics.
func (o *Orchestrator) Enter(core uint32) {
	if err := o.variant.InitializeMMU(core); err != nil {
		// the console is not up and memory is not coherent: halt silently
		reason := halt.Fatal
		if errors.Is(err, mmu.ErrUnsupportedLevel) {
			reason = halt.UnsupportedLevel
		}
		o.halt.Halt(core, reason)
		return
	}

	if core == 0 {
		o.globalSetup()
	}
	o.log.Debugf("core %d: mmu on", core)

	if o.startup != nil {
		o.startup(core)
	}
	if o.multiCore && o.variant.KickoffNext(core) {
		o.log.Debugf("core %d: released core %d", core, core+1)
	}

	if o.run == nil {
		o.halt.Halt(core, halt.RunReturned)
		return
	}
	o.run(core)
	panic(fmt.Sprintf("core %d: run hook returned", core))
}

func (o *Orchestrator) globalSetup() {
	if o.console != nil {
		if err := o.console.Initialize(); err == nil {
			o.console.WriteString(Banner(o.variant.Name()))
		}
	}
	o.sleeper.Sleep(o.settle)
	if o.irq != nil {
		if err := o.irq.Initialize(o.variant.SetInterruptHandler); err != nil {
			o.log.Warnf("interrupt manager: %v", err)
		}
	}
}
