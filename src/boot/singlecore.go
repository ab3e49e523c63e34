//go:build singlecore

package boot

// MultiCore is the build default for releasing the secondary cores.
const MultiCore = false
