// Package redis provides a kvstore.Store backed by a Redis instance.
// Change notification rides a pub/sub channel: every write publishes the
// key, and every process subscribed to the same instance observes it,
// including the writer itself. That single path covers both local
// count-refresh and cross-process consistency.
package redis

import (
	"context"

	"github.com/pkg/errors"
	rdb "github.com/redis/go-redis/v9"

	"github.com/dailystore/storefront/kvstore"
)

const changeChannel = "dailystore:changed"

var _ kvstore.NotifyingStore = (*Store)(nil)

type Store struct {
	c      *rdb.Client
	subs   *kvstore.Subscribers
	pubsub *rdb.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

func New(addr string, db int) *Store {
	client := rdb.NewClient(&rdb.Options{Addr: addr, DB: db})

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		c:      client,
		subs:   kvstore.NewSubscribers(),
		pubsub: client.Subscribe(ctx, changeChannel),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.receive()

	return s
}

func (s *Store) Read(key string) (string, bool) {
	value, err := s.c.Get(context.Background(), key).Result()
	if err != nil {
		return "", false
	}
	return value, true
}

func (s *Store) Write(key, value string) error {
	ctx := context.Background()
	if err := s.c.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "[redis.Write] key %q", key)
	}
	if err := s.c.Publish(ctx, changeChannel, key).Err(); err != nil {
		return errors.Wrapf(err, "[redis.Write] publish key %q", key)
	}
	return nil
}

func (s *Store) Remove(key string) error {
	ctx := context.Background()
	if err := s.c.Del(ctx, key).Err(); err != nil {
		return errors.Wrapf(err, "[redis.Remove] key %q", key)
	}
	if err := s.c.Publish(ctx, changeChannel, key).Err(); err != nil {
		return errors.Wrapf(err, "[redis.Remove] publish key %q", key)
	}
	return nil
}

func (s *Store) OnExternalChange(fn func(key string)) func() {
	return s.subs.Add(fn)
}

func (s *Store) Close() error {
	s.cancel()
	_ = s.pubsub.Close()
	<-s.done
	return s.c.Close()
}

func (s *Store) receive() {
	defer close(s.done)

	for msg := range s.pubsub.Channel() {
		s.subs.Notify(msg.Payload)
	}
}
