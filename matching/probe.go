package matching

import "context"

// Probe reports whether a search should stop. Search polls it only from
// the goroutine that called Search, so a probe needs no synchronization.
type Probe func() bool

// NeverStop is a Probe that never requests cancellation.
func NeverStop() bool {
	return false
}

// ContextProbe returns a Probe that fires once ctx is done.
func ContextProbe(ctx context.Context) Probe {
	return func() bool {
		return ctx.Err() != nil
	}
}
