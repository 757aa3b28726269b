package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dailystore/storefront/catalog"
	"github.com/dailystore/storefront/render"
)

func TestCards_AccentAssignment(t *testing.T) {
	cat := catalog.Default()

	t.Run("accent follows position", func(t *testing.T) {
		cards := render.Cards(cat.All())
		for i, card := range cards {
			require.Equal(t, i%len(render.AccentPalette), card.Accent)
		}
	})

	t.Run("filtering reassigns accents", func(t *testing.T) {
		all := render.Cards(cat.All())
		filtered := render.Search("watch", cat.All())

		require.Len(t, filtered, 1)
		require.Equal(t, 0, filtered[0].Accent, "first position in a filtered list gets accent 0")
		require.Equal(t, "p5", filtered[0].ID)

		// The same product sat at a different position in the full list
		require.Equal(t, "p5", all[4].ID)
		require.Equal(t, 4, all[4].Accent)
	})
}

func TestSearch(t *testing.T) {
	cat := catalog.Default()

	t.Run("case-insensitive single match on name", func(t *testing.T) {
		cards := render.Search("HOODIE", cat.All())
		require.Len(t, cards, 1)
		require.Equal(t, "Comfy Hoodie", cards[0].Name)
	})

	t.Run("matches descriptions too", func(t *testing.T) {
		cards := render.Search("polarized", cat.All())
		require.Len(t, cards, 1)
		require.Equal(t, "Sunglasses", cards[0].Name)
	})

	t.Run("empty-after-trim query renders everything", func(t *testing.T) {
		cards := render.Search("   ", cat.All())
		require.Len(t, cards, cat.Len())
	})

	t.Run("no matches yields empty", func(t *testing.T) {
		require.Empty(t, render.Search("zeppelin", cat.All()))
	})
}

func TestCartRows(t *testing.T) {
	cat := catalog.Default()

	t.Run("joins entries against the catalog", func(t *testing.T) {
		rows := render.CartRows(map[string]int{"p1": 2, "p3": 1}, cat)
		require.Len(t, rows, 2)

		p1, _ := cat.Lookup("p1")
		require.Equal(t, "p1", rows[0].ID)
		require.Equal(t, 2, rows[0].Quantity)
		require.Equal(t, 2*p1.Price, rows[0].LineTotal)
	})

	t.Run("entries without a catalog product are dropped", func(t *testing.T) {
		rows := render.CartRows(map[string]int{"p1": 1, "ghost": 5}, cat)
		require.Len(t, rows, 1)
		require.Equal(t, "p1", rows[0].ID)
	})

	t.Run("empty cart renders no rows", func(t *testing.T) {
		require.Empty(t, render.CartRows(map[string]int{}, cat))
	})
}

func TestFormatPrice(t *testing.T) {
	require.Equal(t, "₹4.99", render.FormatPrice(499))
	require.Equal(t, "₹0.00", render.FormatPrice(0))
	require.Equal(t, "₹129.90", render.FormatPrice(12990))
	require.Equal(t, "₹-1.05", render.FormatPrice(-105))
}
