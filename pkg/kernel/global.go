package kernel

import "sync"

// globalKernel is the process-wide handle a kernel built with
// WithAutoGlobal(true) installs itself into when Start succeeds, so code without a direct
// reference to the builder can still reach a running kernel. The spec's
// Design Notes treat this as a convenience only, never a required path,
// so it is a single mutex-guarded slot rather than a general registry —
// autoGlobal has exactly one caller and one key.
var (
	globalMu     sync.RWMutex
	globalKernel *BuiltKernel
)

func setGlobal(k *BuiltKernel) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalKernel = k
}

func clearGlobal(k *BuiltKernel) {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalKernel == k {
		globalKernel = nil
	}
}

// Global returns the most recently started auto-global kernel, if one is
// currently installed.
func Global() (*BuiltKernel, bool) {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalKernel, globalKernel != nil
}
