package ledshield

import "log/slog"

// Behavior is the work performed while the machine occupies a state
type Behavior func()

// DefaultCapacity is the maximum number of registered states unless
// overridden with WithCapacity
const DefaultCapacity = 128

// StallGuard selects how Advance detects a state that did not ask to move on
type StallGuard int

const (
	// StallGuardTouched forces idle only when neither Release nor an honored
	// RequestTransition ran since the last Advance. A state whose successor is
	// itself keeps running for as long as it releases every tick.
	StallGuardTouched StallGuard = iota
	// StallGuardStrict forces idle whenever the pending state equals the
	// current one, so self-loops are demoted after a single tick.
	StallGuardStrict
)

func (g StallGuard) String() string {
	switch g {
	case StallGuardTouched:
		return "touched"
	case StallGuardStrict:
		return "strict"
	default:
		return "unknown"
	}
}

// Logger is the default logger used when none is provided
var Logger = slog.Default()

func noop() {}
