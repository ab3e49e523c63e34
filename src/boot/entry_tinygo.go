//go:build tinygo && (arm64 || arm)

package boot

var device *Orchestrator

// called by the boot assembly on every core, with its stack set up. Core 0
// comes first and assembles the boot; the others only run once core 0 has
// released core 1.
//
//export __boot_entry
func bootEntryPoint(core uint32) {
	if core == 0 {
		device = Default()
	}
	installVectors()
	device.Enter(core)
}

// Device is the orchestrator the cores booted with.
func Device() *Orchestrator { return device }
