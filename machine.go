package ledshield

import "log/slog"

// Dispatcher is a cooperative, table-driven state machine. It never calls
// behaviors itself: the host loop invokes whatever Advance returns.
//
// A Dispatcher is not safe for concurrent use. Behaviors may call
// RequestTransition and Release on the dispatcher that returned them.
type Dispatcher[S comparable] struct {
	table *table[S]

	mainState    S
	mainBehavior Behavior

	currentState S
	pendingState S
	touched      bool

	guard               StallGuard
	logger              *slog.Logger
	stateChangeCallback func(from, to S)
}

// DispatcherOption is a functional option for configuring a Dispatcher
type DispatcherOption func(*dispatcherConfig)

type dispatcherConfig struct {
	capacity int
	guard    StallGuard
	logger   *slog.Logger
}

// WithCapacity sets the maximum number of registered states.
// Values below one fall back to DefaultCapacity.
func WithCapacity(n int) DispatcherOption {
	return func(c *dispatcherConfig) {
		c.capacity = n
	}
}

// WithLogger sets the logger for the dispatcher
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(c *dispatcherConfig) {
		c.logger = logger
	}
}

// WithStallGuard selects the stall-prevention rule used by Advance
func WithStallGuard(g StallGuard) DispatcherOption {
	return func(c *dispatcherConfig) {
		c.guard = g
	}
}

// New creates a dispatcher that starts in, and falls back to, the given idle
// state. A nil idle behavior is replaced by a no-op.
func New[S comparable](mainState S, mainBehavior Behavior, opts ...DispatcherOption) *Dispatcher[S] {
	cfg := dispatcherConfig{
		capacity: DefaultCapacity,
		guard:    StallGuardTouched,
		logger:   Logger,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.capacity < 1 {
		cfg.capacity = DefaultCapacity
	}
	if cfg.logger == nil {
		cfg.logger = Logger
	}
	if mainBehavior == nil {
		mainBehavior = noop
	}

	return &Dispatcher[S]{
		table:        newTable[S](cfg.capacity),
		mainState:    mainState,
		mainBehavior: mainBehavior,
		currentState: mainState,
		pendingState: mainState,
		guard:        cfg.guard,
		logger:       cfg.logger,
	}
}

// OnStateChange sets a callback invoked by Advance whenever the current
// state changes. Should be called during setup, before the first Advance.
func (d *Dispatcher[S]) OnStateChange(fn func(from, to S)) {
	d.stateChangeCallback = fn
}

// AddState registers behavior for state. It reports false, leaving the table
// unchanged, when the table is full or state is already registered.
func (d *Dispatcher[S]) AddState(state S, behavior Behavior, opts ...StateOption[S]) bool {
	if _, ok := d.table.find(state); ok {
		d.table.dropped++
		d.logger.Warn("state already registered, ignoring", "state", state)
		return false
	}
	if d.table.full() {
		d.table.dropped++
		d.logger.Warn("state table full, dropping registration", "state", state, "capacity", d.table.capacity)
		return false
	}

	e := StateEntry[S]{
		State:    state,
		Behavior: behavior,
		Next:     d.mainState,
	}
	for _, opt := range opts {
		opt(&e)
	}
	if e.Behavior == nil {
		e.Behavior = noop
	}

	d.table.add(e)
	d.logger.Debug("state registered", "state", state, "next", e.Next)
	return true
}

// BehaviorFor returns the behavior registered for state, or the idle
// behavior when there is none
func (d *Dispatcher[S]) BehaviorFor(state S) Behavior {
	if e, ok := d.table.find(state); ok {
		return e.Behavior
	}
	return d.mainBehavior
}

// SuccessorFor returns the declared next state for state, or the idle state
// when there is none
func (d *Dispatcher[S]) SuccessorFor(state S) S {
	if e, ok := d.table.find(state); ok {
		return e.Next
	}
	return d.mainState
}

// RequestTransition steers the next tick to state. It is honored only while
// the machine is idle, so a running sequence cannot be interrupted.
func (d *Dispatcher[S]) RequestTransition(state S) bool {
	if d.currentState != d.mainState {
		d.logger.Debug("transition rejected outside idle", "state", d.currentState, "requested", state)
		return false
	}
	d.pendingState = state
	d.touched = true
	return true
}

// Release steers the next tick to the current state's declared successor
func (d *Dispatcher[S]) Release() {
	d.pendingState = d.SuccessorFor(d.currentState)
	d.touched = true
}

// Advance resolves the pending state into the current state and returns the
// behavior to run for this tick. A state that did not move itself on since
// the previous Advance is replaced by the idle state.
func (d *Dispatcher[S]) Advance() Behavior {
	if d.stalled() {
		d.pendingState = d.mainState
	}

	from := d.currentState
	d.currentState = d.pendingState
	d.touched = false

	if from != d.currentState {
		d.logger.Debug("state changed", "from", from, "to", d.currentState)
		if d.stateChangeCallback != nil {
			d.stateChangeCallback(from, d.currentState)
		}
	}

	return d.BehaviorFor(d.currentState)
}

func (d *Dispatcher[S]) stalled() bool {
	if d.guard == StallGuardStrict {
		return d.pendingState == d.currentState
	}
	return !d.touched
}

// CurrentState returns the state resolved by the last Advance
func (d *Dispatcher[S]) CurrentState() S {
	return d.currentState
}

// MainState returns the idle state
func (d *Dispatcher[S]) MainState() S {
	return d.mainState
}

// Len returns the number of registered states
func (d *Dispatcher[S]) Len() int {
	return len(d.table.entries)
}

// Capacity returns the maximum number of registered states
func (d *Dispatcher[S]) Capacity() int {
	return d.table.capacity
}

// Dropped returns how many registrations were rejected
func (d *Dispatcher[S]) Dropped() int {
	return d.table.dropped
}

// Entries returns a copy of the table in registration order
func (d *Dispatcher[S]) Entries() []StateEntry[S] {
	out := make([]StateEntry[S], len(d.table.entries))
	copy(out, d.table.entries)
	return out
}
