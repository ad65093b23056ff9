package calc

import "sync"

// Store holds the current snapshot. Dispatch is the only way to change it.
type Store struct {
	mu      sync.RWMutex
	state   State
	onStale func(Event)
}

type StoreOption func(*Store)

// WithStaleHandler registers a callback for replies discarded because a
// newer request was issued after them.
func WithStaleHandler(fn func(Event)) StoreOption {
	return func(s *Store) {
		s.onStale = fn
	}
}

func NewStore(initial State, opts ...StoreOption) *Store {
	s := &Store{state: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch reduces ev into the store and returns the requests to run.
func (s *Store) Dispatch(ev Event) []Request {
	s.mu.Lock()
	stale := Stale(s.state, ev)
	var reqs []Request
	if !stale {
		s.state, reqs = Reduce(s.state, ev)
	}
	onStale := s.onStale
	s.mu.Unlock()

	if stale && onStale != nil {
		onStale(ev)
	}
	return reqs
}
