package storefront_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dailystore/storefront/cart"
	"github.com/dailystore/storefront/catalog"
	storeerrors "github.com/dailystore/storefront/internal/errors"
	"github.com/dailystore/storefront/kvstore/memory"
	"github.com/dailystore/storefront/session"
	"github.com/dailystore/storefront/storefront"
)

// testFixture holds the coordinator and its backing stores.
type testFixture struct {
	kv      *memory.Store
	cart    *cart.Store
	service *storefront.Service
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()

	kv := memory.New()
	cat := catalog.Default()

	cartStore, err := cart.New(kv, cat.Lookup, zerolog.Nop())
	require.NoError(t, err)
	sessionStore, err := session.New(kv, zerolog.Nop())
	require.NoError(t, err)

	service, err := storefront.New(storefront.Stores{
		Cart:     cartStore,
		Sessions: sessionStore,
		KV:       kv,
	}, cat, storefront.WithOrderRef(func() string { return "order-1" }))
	require.NoError(t, err)

	return &testFixture{kv: kv, cart: cartStore, service: service}
}

func TestNew_RequiredDependencies(t *testing.T) {
	_, err := storefront.New(storefront.Stores{}, catalog.Default())
	require.Error(t, err)
}

func TestAddAndStep(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.service.AddToCart("p1"))
	require.NoError(t, f.service.AddToCart("p1"))
	require.Equal(t, 2, f.service.CartCount())

	t.Run("step down", func(t *testing.T) {
		require.NoError(t, f.service.QuantityStep("p1", -1))
		require.Equal(t, 1, f.service.CartCount())
	})

	t.Run("step to zero removes the entry", func(t *testing.T) {
		require.NoError(t, f.service.QuantityStep("p1", -1))
		require.NotContains(t, f.cart.Items(), "p1")
	})

	t.Run("remove is unconditional", func(t *testing.T) {
		require.NoError(t, f.service.AddToCart("p2"))
		require.NoError(t, f.service.RemoveItem("p2"))
		require.NoError(t, f.service.RemoveItem("p2"))
		require.Equal(t, 0, f.service.CartCount())
	})
}

func TestCheckout(t *testing.T) {
	t.Run("empty cart mutates nothing", func(t *testing.T) {
		f := setupTestFixture(t)

		_, err := f.service.Checkout()
		require.ErrorIs(t, err, storeerrors.ErrEmptyCart)

		_, ok := f.kv.Read(cart.StorageKey)
		require.False(t, ok, "empty checkout must not touch the stored document")
	})

	t.Run("non-empty cart clears and returns a receipt", func(t *testing.T) {
		f := setupTestFixture(t)
		require.NoError(t, f.service.AddToCart("p1"))
		require.NoError(t, f.service.AddToCart("p2"))

		wantTotal := f.service.CartTotal()
		receipt, err := f.service.Checkout()
		require.NoError(t, err)
		require.Equal(t, "order-1", receipt.Reference)
		require.Equal(t, wantTotal, receipt.Total)
		require.Equal(t, 2, receipt.ItemCount)

		require.Equal(t, 0, f.service.CartCount())
	})
}

func TestSearchStash(t *testing.T) {
	f := setupTestFixture(t)

	t.Run("pop without stash", func(t *testing.T) {
		_, ok := f.service.PopSearchQuery()
		require.False(t, ok)
	})

	t.Run("pop delivers at most once", func(t *testing.T) {
		require.NoError(t, f.service.StashSearchQuery("hoodie"))

		query, ok := f.service.PopSearchQuery()
		require.True(t, ok)
		require.Equal(t, "hoodie", query)

		_, ok = f.service.PopSearchQuery()
		require.False(t, ok)
	})
}

func TestSearch(t *testing.T) {
	f := setupTestFixture(t)

	cards := f.service.Search("notebook")
	require.Len(t, cards, 1)
	require.Equal(t, "Notebook", cards[0].Name)

	require.Len(t, f.service.Search(""), f.service.Catalog().Len())
}

func TestAccounts(t *testing.T) {
	f := setupTestFixture(t)

	require.NoError(t, f.service.Signup("A", "a@x.com", "p"))

	t.Run("signup does not log in", func(t *testing.T) {
		_, ok := f.service.CurrentUser()
		require.False(t, ok)
	})

	t.Run("login then logout", func(t *testing.T) {
		user, err := f.service.Login("a@x.com", "p")
		require.NoError(t, err)
		require.Equal(t, "A", user.Name)

		current, ok := f.service.CurrentUser()
		require.True(t, ok)
		require.Equal(t, user, current)

		require.NoError(t, f.service.Logout())
		_, ok = f.service.CurrentUser()
		require.False(t, ok)
	})
}

func TestOnCartChanged(t *testing.T) {
	f := setupTestFixture(t)

	var counts []int
	cancel := f.service.OnCartChanged(func(count int) { counts = append(counts, count) })

	require.NoError(t, f.service.AddToCart("p1"))
	require.NoError(t, f.service.AddToCart("p1"))
	require.Equal(t, []int{1, 2}, counts)

	t.Run("session writes do not fire the cart watch", func(t *testing.T) {
		require.NoError(t, f.service.Signup("A", "a@x.com", "p"))
		require.Equal(t, []int{1, 2}, counts)
	})

	t.Run("external write to the cart document fires it", func(t *testing.T) {
		require.NoError(t, f.kv.Write(cart.StorageKey, `{"p1":9}`))
		require.Equal(t, []int{1, 2, 9}, counts)
	})

	t.Run("cancel stops delivery", func(t *testing.T) {
		cancel()
		require.NoError(t, f.service.AddToCart("p2"))
		require.Equal(t, []int{1, 2, 9}, counts)
	})
}
