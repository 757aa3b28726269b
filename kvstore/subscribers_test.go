package kvstore_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dailystore/storefront/kvstore"
)

func TestSubscribers(t *testing.T) {
	subs := kvstore.NewSubscribers()
	require.Equal(t, 0, subs.Len())

	var got []string
	cancel := subs.Add(func(key string) { got = append(got, key) })
	require.Equal(t, 1, subs.Len())

	subs.Notify("cart")
	subs.Notify("session")
	require.Equal(t, []string{"cart", "session"}, got)

	t.Run("cancel removes only its own callback", func(t *testing.T) {
		other := 0
		keep := subs.Add(func(string) { other++ })
		defer keep()

		cancel()
		require.Equal(t, 1, subs.Len())

		subs.Notify("cart")
		require.Equal(t, []string{"cart", "session"}, got)
		require.Equal(t, 1, other)
	})

	t.Run("cancel twice is harmless", func(t *testing.T) {
		cancel()
	})
}
