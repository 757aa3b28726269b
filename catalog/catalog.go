// Package catalog holds the fixed, read-only product list the storefront
// sells from. The data ships embedded in the binary; nothing mutates it
// after startup.
package catalog

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed products.yaml
var productsYAML []byte

// Product is a single catalog entry. Price is in minor currency units.
type Product struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Price       int    `yaml:"price"`
	Description string `yaml:"description"`
}

type Catalog struct {
	products []Product
	byID     map[string]Product
}

func New(products []Product) *Catalog {
	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// Default returns the catalog parsed from the embedded product document.
// The document is a fixed build input, so a parse failure is a defect and
// panics rather than returning an error.
func Default() *Catalog {
	var doc struct {
		Products []Product `yaml:"products"`
	}
	if err := yaml.Unmarshal(productsYAML, &doc); err != nil {
		panic("catalog: failed to parse embedded products.yaml: " + err.Error())
	}
	return New(doc.Products)
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (Product, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// All returns the full product list in catalog order.
func (c *Catalog) All() []Product {
	out := make([]Product, len(c.products))
	copy(out, c.products)
	return out
}

// Search returns the products whose name or description contains the
// query, case-insensitively. A query that is empty after trimming
// matches the whole catalog.
func (c *Catalog) Search(query string) []Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return c.All()
	}

	var results []Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			results = append(results, p)
		}
	}
	return results
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int { return len(c.products) }
