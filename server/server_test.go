package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/dailystore/storefront/cart"
	"github.com/dailystore/storefront/catalog"
	"github.com/dailystore/storefront/internal/config"
	"github.com/dailystore/storefront/kvstore/memory"
	"github.com/dailystore/storefront/server"
	"github.com/dailystore/storefront/session"
	"github.com/dailystore/storefront/storefront"
)

func setupServer(t *testing.T) *server.Server {
	t.Helper()

	kv := memory.New()
	cat := catalog.Default()

	cartStore, err := cart.New(kv, cat.Lookup, zerolog.Nop())
	require.NoError(t, err)
	sessionStore, err := session.New(kv, zerolog.Nop())
	require.NoError(t, err)
	shop, err := storefront.New(storefront.Stores{
		Cart:     cartStore,
		Sessions: sessionStore,
		KV:       kv,
	}, cat)
	require.NoError(t, err)

	srv, err := server.New(config.New(), shop, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *server.Server, path string) (*http.Response, string) {
	t.Helper()

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return rec.Result(), string(body)
}

func postForm(t *testing.T, srv *server.Server, path string, form url.Values) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec.Result()
}

func TestHomePage(t *testing.T) {
	srv := setupServer(t)

	resp, body := get(t, srv, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, body, "Login")
	require.Contains(t, body, "Sign up")
}

func TestProductsPage(t *testing.T) {
	srv := setupServer(t)

	t.Run("full grid", func(t *testing.T) {
		resp, body := get(t, srv, "/products")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Contains(t, body, "Everyday Tee")
		require.Contains(t, body, "Phone Case")
	})

	t.Run("filtered grid", func(t *testing.T) {
		_, body := get(t, srv, "/products?q=hoodie")
		require.Contains(t, body, "Comfy Hoodie")
		require.NotContains(t, body, "Everyday Tee")
	})
}

func TestAddToCartFlow(t *testing.T) {
	srv := setupServer(t)

	resp := postForm(t, srv, "/cart/add", url.Values{"product_id": {"p1"}})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Contains(t, resp.Header.Get("Location"), "/products")

	_, body := get(t, srv, "/cart")
	require.Contains(t, body, "Everyday Tee")
	require.Contains(t, body, `<span class="badge">1</span>`)
}

func TestCheckout(t *testing.T) {
	srv := setupServer(t)

	t.Run("empty cart reports a notice and no mutation", func(t *testing.T) {
		resp := postForm(t, srv, "/checkout", nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Location"), "empty")
	})

	t.Run("non-empty cart clears", func(t *testing.T) {
		_ = postForm(t, srv, "/cart/add", url.Values{"product_id": {"p2"}})

		resp := postForm(t, srv, "/checkout", nil)
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Contains(t, resp.Header.Get("Location"), "Thank")

		_, body := get(t, srv, "/cart")
		require.Contains(t, body, "Your cart is empty")
	})
}

func TestAuthFlow(t *testing.T) {
	srv := setupServer(t)

	resp := postForm(t, srv, "/auth/signup", url.Values{
		"name":     {"Ada"},
		"email":    {"ada@x.com"},
		"password": {"pw"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)

	t.Run("wrong password bounces with message", func(t *testing.T) {
		resp := postForm(t, srv, "/auth/login", url.Values{
			"email":    {"ada@x.com"},
			"password": {"nope"},
		})
		require.Contains(t, resp.Header.Get("Location"), "Incorrect")
	})

	t.Run("login shows the user in the header", func(t *testing.T) {
		resp := postForm(t, srv, "/auth/login", url.Values{
			"email":    {"ada@x.com"},
			"password": {"pw"},
		})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		_, body := get(t, srv, "/products")
		require.Contains(t, body, "Hi, Ada")
	})

	t.Run("logout clears the session", func(t *testing.T) {
		resp, _ := get(t, srv, "/auth/logout")
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)

		_, body := get(t, srv, "/products")
		require.NotContains(t, body, "Hi, Ada")
	})
}

func TestSearchHandoff(t *testing.T) {
	srv := setupServer(t)

	t.Run("header search stashes and redirects", func(t *testing.T) {
		resp := postForm(t, srv, "/search/go", url.Values{"q": {"watch"}})
		require.Equal(t, http.StatusSeeOther, resp.StatusCode)
		require.Equal(t, "/search", resp.Header.Get("Location"))

		_, body := get(t, srv, "/search")
		require.Contains(t, body, "Classic Watch")
		require.NotContains(t, body, "Everyday Tee")

		// The stash is one-shot: the next visit shows the whole catalog
		_, body = get(t, srv, "/search")
		require.Contains(t, body, "Everyday Tee")
	})

	t.Run("empty header search goes to products", func(t *testing.T) {
		resp := postForm(t, srv, "/search/go", url.Values{"q": {""}})
		require.Equal(t, "/products", resp.Header.Get("Location"))
	})

	t.Run("no results marker", func(t *testing.T) {
		_, body := get(t, srv, "/search?q=zeppelin")
		require.Contains(t, body, "No results for")
	})
}
