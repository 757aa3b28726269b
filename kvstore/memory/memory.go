// Package memory provides a map-backed kvstore.Store. It is the test
// double for the persistent adapters and the fallback backend when no
// durable storage is configured.
package memory

import (
	"sync"

	"github.com/dailystore/storefront/kvstore"
)

var _ kvstore.NotifyingStore = (*Store)(nil)

type Store struct {
	mu   sync.RWMutex
	data map[string]string
	subs *kvstore.Subscribers
}

func New() *Store {
	return &Store{
		data: make(map[string]string),
		subs: kvstore.NewSubscribers(),
	}
}

func (s *Store) Read(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	return value, ok
}

func (s *Store) Write(key, value string) error {
	s.mu.Lock()
	s.data[key] = value
	s.mu.Unlock()

	s.subs.Notify(key)
	return nil
}

func (s *Store) Remove(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()

	s.subs.Notify(key)
	return nil
}

func (s *Store) OnExternalChange(fn func(key string)) func() {
	return s.subs.Add(fn)
}

func (s *Store) Close() error { return nil }
