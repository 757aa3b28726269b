package kvstore

import (
	"sync"

	"github.com/google/uuid"
)

// Subscribers is a callback registry shared by the store adapters. Each
// subscription gets a uuid token so cancel only removes its own callback.
type Subscribers struct {
	mu  sync.RWMutex
	fns map[string]func(key string)
}

func NewSubscribers() *Subscribers {
	return &Subscribers{fns: make(map[string]func(key string))}
}

// Add registers fn and returns a cancel func.
func (s *Subscribers) Add(fn func(key string)) func() {
	id := uuid.New().String()

	s.mu.Lock()
	s.fns[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.fns, id)
		s.mu.Unlock()
	}
}

// Notify calls every registered callback with key.
func (s *Subscribers) Notify(key string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.fns))
	for _, fn := range s.fns {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()

	for _, fn := range fns {
		fn(key)
	}
}

// Len returns the number of active subscriptions.
func (s *Subscribers) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.fns)
}
