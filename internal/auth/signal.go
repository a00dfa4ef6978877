package auth

import "sync"

// Signal publishes the current user id (or "" when signed out) to
// observers. The sync stores watch it to start and stop their backend
// subscriptions on sign-in and sign-out.
type Signal struct {
	mu        sync.Mutex
	userID    string
	watchers  map[int]func(string)
	nextWatch int
}

func NewSignal() *Signal {
	return &Signal{watchers: make(map[int]func(string))}
}

// Set publishes a new current user. Observers are only notified on actual
// transitions.
func (s *Signal) Set(userID string) {
	s.mu.Lock()
	if s.userID == userID {
		s.mu.Unlock()
		return
	}
	s.userID = userID
	fns := make([]func(string), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(userID)
	}
}

// Current returns the current user id, empty when signed out.
func (s *Signal) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// Watch registers an observer, invoking it immediately with the current
// value. The returned cancel is idempotent.
func (s *Signal) Watch(fn func(string)) func() {
	s.mu.Lock()
	id := s.nextWatch
	s.nextWatch++
	s.watchers[id] = fn
	current := s.userID
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watchers, id)
			s.mu.Unlock()
		})
	}
}
