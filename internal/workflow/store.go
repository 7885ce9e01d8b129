package workflow

import "sync"

// Store holds the latest [Snapshot] and fans it out to subscribers.
type Store struct {
	mu      sync.Mutex
	current Snapshot
	subs    map[int]chan Snapshot
	nextID  int
}

// NewStore returns a store whose current snapshot is initial.
func NewStore(initial Snapshot) *Store {
	return &Store{current: initial.Clone(), subs: make(map[int]chan Snapshot)}
}

// Snapshot returns a deep copy of the latest published state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// Subscribe returns a channel primed with the current snapshot.
//
// The channel holds one value. A publish replaces any snapshot the reader has not taken yet.
// Calling cancel closes the channel.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++

	ch := make(chan Snapshot, 1)
	ch <- s.current.Clone()
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Watch calls fn with each snapshot from its own goroutine until cancel is called.
//
// fn may call back into the workflow.
func (s *Store) Watch(fn func(Snapshot)) func() {
	ch, cancel := s.Subscribe()
	go func() {
		for snap := range ch {
			fn(snap)
		}
	}()
	return cancel
}

// Publish replaces the current snapshot and notifies every subscriber without blocking.
func (s *Store) Publish(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = snap.Clone()
	for _, ch := range s.subs {
		send(ch, s.current.Clone())
	}
}

// send delivers snap, dropping an undelivered older value first.
func send(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- snap:
	default:
		// Publish is the only sender and holds the lock.
	}
}
