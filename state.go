package ledshield

// StateEntry associates a state with its behavior and declared successor
type StateEntry[S comparable] struct {
	State    S
	Behavior Behavior
	Next     S
}

// StateOption is a functional option for configuring a StateEntry
type StateOption[S comparable] func(*StateEntry[S])

// WithNext sets the state Release moves to from this state.
// Without it the successor is the idle state.
func WithNext[S comparable](next S) StateOption[S] {
	return func(e *StateEntry[S]) {
		e.Next = next
	}
}

// table is the append-only registry of state entries, scanned in
// registration order
type table[S comparable] struct {
	entries  []StateEntry[S]
	capacity int
	dropped  int
}

func newTable[S comparable](capacity int) *table[S] {
	return &table[S]{
		entries:  make([]StateEntry[S], 0, capacity),
		capacity: capacity,
	}
}

func (t *table[S]) find(state S) (*StateEntry[S], bool) {
	for i := range t.entries {
		if t.entries[i].State == state {
			return &t.entries[i], true
		}
	}
	return nil, false
}

func (t *table[S]) full() bool {
	return len(t.entries) >= t.capacity
}

func (t *table[S]) add(e StateEntry[S]) {
	t.entries = append(t.entries, e)
}
