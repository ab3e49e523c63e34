// Package bootsim boots the real boot path on simulated Raspberry Pi 3 cores.
// Every core is a goroutine with its own simulated system registers; memory,
// the translation table and the console are shared, as on the board.
package bootsim

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"awaken/src/boot/exception"
	a53 "awaken/src/hardware/arm-cortex-a53"
	"awaken/src/hardware/rpi"
)

const (
	VariantAArch64 = "aarch64"
	VariantAArch32 = "aarch32"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Injection is an exception raised on a core from its startup hook.
type Injection struct {
	Core uint32 `mapstructure:"core" yaml:"core"`
	Type string `mapstructure:"type" yaml:"type"`
	ESR  uint64 `mapstructure:"esr" yaml:"esr"`
	SPSR uint64 `mapstructure:"spsr" yaml:"spsr"`
	FAR  uint64 `mapstructure:"far" yaml:"far"`
	ELR  uint64 `mapstructure:"elr" yaml:"elr"`
	// Pending is what the interrupt controller reports as pending in its
	// first bank while the exception is handled.
	Pending uint32 `mapstructure:"pending" yaml:"pending,omitempty"`
}

// Record converts the injection to what the vector table would pass.
func (i Injection) Record() (exception.Record, error) {
	t, ok := exception.TypeByName(i.Type)
	if !ok {
		return exception.Record{}, fmt.Errorf("%w: unknown exception type %q", ErrInvalidConfig, i.Type)
	}
	return exception.Record{Type: t, ESR: i.ESR, SPSR: i.SPSR, FAR: i.FAR, ELR: i.ELR}, nil
}

// Config describes one simulated boot.
type Config struct {
	Variant string `mapstructure:"variant"`
	// Level is EL0..EL3 for aarch64 and a CPSR mode (svc, hyp, ...) for aarch32.
	Level       string        `mapstructure:"level"`
	Cores       int           `mapstructure:"cores"`
	MultiCore   bool          `mapstructure:"multiCore"`
	SettleDelay time.Duration `mapstructure:"settleDelay"`
	JumpTarget  uint64        `mapstructure:"jumpTarget"`
	TableBase   uint64        `mapstructure:"tableBase"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Trace       bool          `mapstructure:"trace"`
	MetricsAddr string        `mapstructure:"metricsAddr"`
	Exceptions  []Injection   `mapstructure:"exceptions"`
}

// NewViper returns a viper with the defaults of a Pi 3 booting a 64 bit
// kernel at EL2, reading BOOTSIM_* environment overrides.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("variant", VariantAArch64)
	v.SetDefault("level", "EL2")
	v.SetDefault("cores", rpi.CoreCount)
	v.SetDefault("multiCore", true)
	v.SetDefault("settleDelay", 10*time.Millisecond)
	v.SetDefault("jumpTarget", uint64(rpi.KernelLoadAddress))
	v.SetDefault("tableBase", 0x0020_0000)
	v.SetDefault("timeout", 2*time.Second)
	v.SetDefault("trace", false)
	v.SetDefault("metricsAddr", "")
	v.SetEnvPrefix("bootsim")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration file, if one is named, and decodes v.
func Load(v *viper.Viper, file string) (Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading %s: %w", file, err)
		}
	}
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var modes = map[string]uint32{
	"usr": a53.ProgramStatusModeUser,
	"fiq": a53.ProgramStatusModeFIQ,
	"irq": a53.ProgramStatusModeIRQ,
	"svc": a53.ProgramStatusModeSupervisor,
	"mon": a53.ProgramStatusModeMonitor,
	"abt": a53.ProgramStatusModeAbort,
	"hyp": a53.ProgramStatusModeHypervisor,
	"und": a53.ProgramStatusModeUndefined,
	"sys": a53.ProgramStatusModeSystem,
}

// ExceptionLevel parses Level for an aarch64 boot.
func (c Config) ExceptionLevel() (a53.ExceptionLevel, error) {
	for el := a53.EL0; el <= a53.EL3; el++ {
		if strings.EqualFold(c.Level, el.String()) {
			return el, nil
		}
	}
	return 0, fmt.Errorf("%w: level %q is not EL0..EL3", ErrInvalidConfig, c.Level)
}

// Mode parses Level for an aarch32 boot.
func (c Config) Mode() (uint32, error) {
	m, ok := modes[strings.ToLower(c.Level)]
	if !ok {
		return 0, fmt.Errorf("%w: level %q is not a CPSR mode", ErrInvalidConfig, c.Level)
	}
	return m, nil
}

func (c Config) Validate() error {
	switch c.Variant {
	case VariantAArch64:
		if _, err := c.ExceptionLevel(); err != nil {
			return err
		}
	case VariantAArch32:
		if _, err := c.Mode(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: variant %q", ErrInvalidConfig, c.Variant)
	}
	if c.Cores < 1 || c.Cores > rpi.CoreCount {
		return fmt.Errorf("%w: %d cores, the board has 1 to %d", ErrInvalidConfig, c.Cores, rpi.CoreCount)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	for _, inj := range c.Exceptions {
		if int(inj.Core) >= c.Cores {
			return fmt.Errorf("%w: exception on core %d of %d", ErrInvalidConfig, inj.Core, c.Cores)
		}
		if _, err := inj.Record(); err != nil {
			return err
		}
	}
	return nil
}
