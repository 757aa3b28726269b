// Package file provides a kvstore.Store backed by one document file per
// key inside a data folder. Writes are atomic (tmp, fsync, rename) so a
// concurrent reader never observes a half-written document. A polling
// watcher reports changes made by other processes sharing the folder.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/dailystore/storefront/kvstore"
)

const (
	docExtension    = ".doc"
	defaultInterval = time.Second
)

var _ kvstore.NotifyingStore = (*Store)(nil)

type Store struct {
	folder   string
	interval time.Duration
	subs     *kvstore.Subscribers

	mu   sync.Mutex
	seen map[string]time.Time // key -> last observed mtime

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

type Option func(*Store)

// WithPollInterval overrides the watcher interval (primarily for testing).
func WithPollInterval(d time.Duration) Option {
	return func(s *Store) { s.interval = d }
}

func New(folder string, options ...Option) (*Store, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, errors.Wrap(err, "[file.New] mkdir data folder")
	}

	s := &Store{
		folder:   folder,
		interval: defaultInterval,
		subs:     kvstore.NewSubscribers(),
		seen:     make(map[string]time.Time),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range options {
		opt(s)
	}

	s.snapshot()
	go s.watch()

	return s, nil
}

func (s *Store) Read(key string) (string, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func (s *Store) Write(key, value string) error {
	if err := atomicWriteFile(s.path(key), []byte(value), 0o644); err != nil {
		return errors.Wrapf(err, "[file.Write] key %q", key)
	}
	s.mark(key)
	s.subs.Notify(key)
	return nil
}

func (s *Store) Remove(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "[file.Remove] key %q", key)
	}
	s.mark(key)
	s.subs.Notify(key)
	return nil
}

func (s *Store) OnExternalChange(fn func(key string)) func() {
	return s.subs.Add(fn)
}

func (s *Store) Close() error {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
	return nil
}

func (s *Store) path(key string) string {
	// Keys are internal constants but never trust them as path components.
	safe := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '_'
		}
		return r
	}, key)
	return filepath.Join(s.folder, safe+docExtension)
}

// mark records the key's current mtime so the watcher does not report the
// store's own write back to its subscribers twice.
func (s *Store) mark(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, err := os.Stat(s.path(key))
	if err != nil {
		delete(s.seen, key)
		return
	}
	s.seen[key] = info.ModTime()
}

// snapshot primes the mtime table so pre-existing documents do not fire a
// change event on startup.
func (s *Store) snapshot() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, mtime := range s.scan() {
		s.seen[key] = mtime
	}
}

func (s *Store) scan() map[string]time.Time {
	current := make(map[string]time.Time)
	entries, err := os.ReadDir(s.folder)
	if err != nil {
		return current
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, docExtension) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		current[strings.TrimSuffix(name, docExtension)] = info.ModTime()
	}
	return current
}

func (s *Store) watch() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			for _, key := range s.changedKeys() {
				s.subs.Notify(key)
			}
		}
	}
}

// changedKeys diffs the folder against the last observed mtimes and
// returns every key written or removed since, updating the table.
func (s *Store) changedKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.scan()

	var changed []string
	for key, mtime := range current {
		if previous, ok := s.seen[key]; !ok || !previous.Equal(mtime) {
			changed = append(changed, key)
		}
	}
	for key := range s.seen {
		if _, ok := current[key]; !ok {
			changed = append(changed, key)
		}
	}

	s.seen = current
	return changed
}

// atomicWriteFile writes data via a temp file in the same folder followed
// by a rename, with a remove+rename fallback for platforms where rename
// onto an existing file fails.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}

	_ = os.Chmod(tmpPath, perm)

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename: %v (after remove: %v)", err, err2)
		}
	}
	return nil
}
