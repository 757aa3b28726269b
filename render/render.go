// Package render derives presentation records from products and cart
// state. Everything here is a pure function of its inputs so the UI
// layer on top stays free of bookkeeping.
package render

import (
	"fmt"
	"strings"

	"github.com/dailystore/storefront/catalog"
)

// AccentPalette holds the visual accents cards cycle through. The accent
// is assigned by position in the rendered sequence, not by product
// identity: re-filtering a list reassigns accents.
var AccentPalette = []string{
	"linear-gradient(135deg,#fbc2eb,#a6c1ee)",
	"linear-gradient(135deg,#a8edea,#fed6e3)",
	"linear-gradient(135deg,#f6d365,#fda085)",
	"linear-gradient(135deg,#cfd9df,#e2ebf0)",
	"linear-gradient(135deg,#d4fc79,#96e6a1)",
	"linear-gradient(135deg,#f093fb,#f5576c)",
	"linear-gradient(135deg,#5ee7df,#b490ca)",
	"linear-gradient(135deg,#cfd9df,#e2ebf0)",
	"linear-gradient(135deg,#f6d365,#fda085)",
	"linear-gradient(135deg,#a1c4fd,#c2e9fb)",
	"linear-gradient(135deg,#fbc2eb,#a6c1ee)",
	"linear-gradient(135deg,#f093fb,#f5576c)",
}

// Card is the presentation record for one product.
type Card struct {
	ID          string
	Name        string
	Description string
	Price       int
	PriceLabel  string
	Accent      int
	AccentStyle string
}

// CartRow is a cart page line: a product joined with its quantity.
type CartRow struct {
	Card
	Quantity  int
	LineTotal int
}

// FormatPrice renders a minor-currency-unit amount for display.
func FormatPrice(minor int) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("₹%s%d.%02d", sign, minor/100, minor%100)
}

// Cards maps products to presentation records, assigning each its
// position-based accent.
func Cards(products []catalog.Product) []Card {
	cards := make([]Card, 0, len(products))
	for i, p := range products {
		cards = append(cards, newCard(p, i))
	}
	return cards
}

// Search filters products by a case-insensitive substring match on name
// or description, then renders the matches. A query that is empty after
// trimming renders the full input, not an empty result.
func Search(query string, products []catalog.Product) []Card {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Cards(products)
	}

	var matched []catalog.Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			matched = append(matched, p)
		}
	}
	return Cards(matched)
}

// CartRows joins cart entries against the catalog. Entries referencing a
// product the catalog no longer carries are dropped silently; a manually
// corrupted cart document must not break the page. Rows come out in
// catalog order so the page is stable across reloads.
func CartRows(items map[string]int, cat *catalog.Catalog) []CartRow {
	rows := make([]CartRow, 0, len(items))
	position := 0
	for _, p := range cat.All() {
		qty, ok := items[p.ID]
		if !ok {
			continue
		}
		rows = append(rows, CartRow{
			Card:      newCard(p, position),
			Quantity:  qty,
			LineTotal: p.Price * qty,
		})
		position++
	}
	return rows
}

func newCard(p catalog.Product, position int) Card {
	accent := position % len(AccentPalette)
	return Card{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		PriceLabel:  FormatPrice(p.Price),
		Accent:      accent,
		AccentStyle: AccentPalette[accent],
	}
}
