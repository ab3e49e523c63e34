package bootsim

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awaken/src/boot/exception"
	a53 "awaken/src/hardware/arm-cortex-a53"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, VariantAArch64, cfg.Variant)
	assert.Equal(t, "EL2", cfg.Level)
	assert.Equal(t, 4, cfg.Cores)
	assert.True(t, cfg.MultiCore)
	assert.Equal(t, 10*time.Millisecond, cfg.SettleDelay)
	assert.Equal(t, uint64(0x80000), cfg.JumpTarget)
	assert.Equal(t, uint64(0x200000), cfg.TableBase)
	assert.Empty(t, cfg.Exceptions)

	el, err := cfg.ExceptionLevel()
	require.NoError(t, err)
	assert.Equal(t, a53.EL2, el)
}

func TestLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "boot.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
variant: aarch32
level: svc
cores: 2
multiCore: false
settleDelay: 1ms
exceptions:
  - core: 1
    type: CurrentElSpxSync
    esr: "0x96000046"
    far: "0x7fe00000"
`), 0o644))

	cfg, err := Load(NewViper(), file)
	require.NoError(t, err)
	assert.Equal(t, VariantAArch32, cfg.Variant)
	assert.Equal(t, 2, cfg.Cores)
	assert.False(t, cfg.MultiCore)
	assert.Equal(t, time.Millisecond, cfg.SettleDelay)

	mode, err := cfg.Mode()
	require.NoError(t, err)
	assert.Equal(t, uint32(a53.ProgramStatusModeSupervisor), mode)

	require.Len(t, cfg.Exceptions, 1)
	r, err := cfg.Exceptions[0].Record()
	require.NoError(t, err)
	assert.Equal(t, exception.Record{Type: exception.CurrentElSpxSync, ESR: 0x96000046, FAR: 0x7fe00000}, r)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("BOOTSIM_CORES", "2")
	t.Setenv("BOOTSIM_LEVEL", "el1")
	cfg, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Cores)

	el, err := cfg.ExceptionLevel()
	require.NoError(t, err)
	assert.Equal(t, a53.EL1, el)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg, err := Load(NewViper(), "")
		require.NoError(t, err)
		return cfg
	}
	for name, mutate := range map[string]func(*Config){
		"variant":  func(c *Config) { c.Variant = "riscv" },
		"level":    func(c *Config) { c.Level = "EL4" },
		"mode":     func(c *Config) { c.Variant = VariantAArch32; c.Level = "EL1" },
		"no cores": func(c *Config) { c.Cores = 0 },
		"too many": func(c *Config) { c.Cores = 5 },
		"timeout":  func(c *Config) { c.Timeout = 0 },
		"bad core": func(c *Config) { c.Exceptions = []Injection{{Core: 4, Type: "CurrentElSpxSync"}} },
		"bad type": func(c *Config) { c.Exceptions = []Injection{{Core: 0, Type: "Reset"}} },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
