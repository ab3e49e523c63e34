package boot

var (
	startupHook Hook
	runHook     Hook
)

// ComeAliveWith registers the kernel's startup hook, run once on every core
// right after its MMU is on.
func ComeAliveWith(f func(core uint32)) {
	startupHook = f
}

// RunWith registers the kernel's run hook, which every core enters last and
// must never leave.
func RunWith(f func(core uint32)) {
	runHook = f
}

// Registered applies the hooks registered with ComeAliveWith and RunWith.
func Registered() Option {
	return WithHooks(startupHook, runHook)
}
