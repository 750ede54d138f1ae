package session

import (
	"sync"

	"github.com/dmitrijs2005/docvault/internal/client/models"
)

// Listener observes accepted transitions. It runs after the store lock is
// released, so it may read the store but must not expect to be the only
// writer.
type Listener func(prev, next State)

// Store is the single owner of the session State. Safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners map[int]Listener
	nextID    int
}

// NewStore returns a store in the Anonymous state.
func NewStore() *Store {
	return &Store{listeners: make(map[int]Listener)}
}

// State returns a copy of the current snapshot.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated()
}

// User returns a copy of the current user, or nil when anonymous.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.User.Clone()
}

func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Status
}

func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.LastError
}

// Dispatch reduces a into the current state and notifies listeners. A
// rejected action leaves the state untouched and notifies nobody.
func (s *Store) Dispatch(a Action) (State, error) {
	s.mu.Lock()
	prev := s.state
	next, err := Reduce(prev, a)
	if err != nil {
		s.mu.Unlock()
		return prev.clone(), err
	}
	s.state = next
	listeners := make([]Listener, 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if l, ok := s.listeners[id]; ok {
			listeners = append(listeners, l)
		}
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(prev.clone(), next.clone())
	}
	return next.clone(), nil
}

func (s *Store) Start() error {
	_, err := s.Dispatch(Start{})
	return err
}

func (s *Store) Succeed(user *models.User) error {
	_, err := s.Dispatch(Succeed{User: user})
	return err
}

func (s *Store) Fail(msg string) error {
	_, err := s.Dispatch(Fail{Err: msg})
	return err
}

func (s *Store) Refresh(user *models.User) error {
	_, err := s.Dispatch(Refresh{User: user})
	return err
}

// Clear never fails.
func (s *Store) Clear() {
	_, _ = s.Dispatch(Clear{})
}

// Subscribe registers l in registration order and returns a function that
// removes it.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}
