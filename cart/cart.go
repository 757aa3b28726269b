// Package cart owns the shopping cart: a mapping of product id to
// quantity persisted as a single JSON document in the key-value store.
package cart

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dailystore/storefront/catalog"
	"github.com/dailystore/storefront/kvstore"
)

// StorageKey is the document key the cart mapping is persisted under.
const StorageKey = "dailystore_cart_v1"

// ProductLookup resolves a product id against the catalog.
type ProductLookup func(id string) (catalog.Product, bool)

// Store reads and mutates the persisted cart. Every mutation rewrites
// the whole mapping; the key-value adapter fans the change out to any
// subscribed view.
type Store struct {
	kv     kvstore.Store
	lookup ProductLookup
	log    zerolog.Logger
}

func New(kv kvstore.Store, lookup ProductLookup, log zerolog.Logger) (*Store, error) {
	if kv == nil {
		return nil, errors.New("[cart.New] kv store is required")
	}
	if lookup == nil {
		return nil, errors.New("[cart.New] product lookup is required")
	}
	return &Store{kv: kv, lookup: lookup, log: log}, nil
}

// Items returns the stored mapping. Absent or malformed documents yield
// an empty mapping, never an error.
func (s *Store) Items() map[string]int {
	raw, ok := s.kv.Read(StorageKey)
	if !ok {
		return map[string]int{}
	}

	items := map[string]int{}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.log.Warn().Err(err).Msg("cart document malformed, treating as empty")
		return map[string]int{}
	}
	return items
}

// Add increments the quantity for id by qty, creating the entry if
// absent. The id is not validated against the catalog: unknown ids are
// stored inertly and simply never render.
func (s *Store) Add(id string, qty int) error {
	items := s.Items()
	items[id] += qty
	if items[id] <= 0 {
		delete(items, id)
	}
	return s.save(items)
}

// SetQuantity sets the absolute quantity for id. A quantity of zero or
// less deletes the entry, keeping the no-nonpositive-quantities
// invariant at the single enforcement point.
func (s *Store) SetQuantity(id string, qty int) error {
	items := s.Items()
	if qty <= 0 {
		delete(items, id)
	} else {
		items[id] = qty
	}
	return s.save(items)
}

// Remove deletes the entry for id. Removing an absent entry is a no-op.
func (s *Store) Remove(id string) error {
	items := s.Items()
	delete(items, id)
	return s.save(items)
}

// Clear deletes the whole stored mapping.
func (s *Store) Clear() error {
	if err := s.kv.Remove(StorageKey); err != nil {
		return errors.Wrap(err, "[cart.Clear] remove document")
	}
	return nil
}

// ItemCount returns the sum of all quantities across entries.
func (s *Store) ItemCount() int {
	count := 0
	for _, qty := range s.Items() {
		count += qty
	}
	return count
}

// Total returns the cart total in minor currency units. Entries whose id
// is missing from the catalog contribute zero.
func (s *Store) Total() int {
	total := 0
	for id, qty := range s.Items() {
		if p, ok := s.lookup(id); ok {
			total += p.Price * qty
		}
	}
	return total
}

func (s *Store) save(items map[string]int) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return errors.Wrap(err, "[cart.save] marshal mapping")
	}
	if err := s.kv.Write(StorageKey, string(raw)); err != nil {
		return errors.Wrap(err, "[cart.save] write document")
	}
	return nil
}
