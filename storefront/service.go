// Package storefront is the event coordinator: it translates UI events
// into cart and session store calls and hands derived state back to the
// page layer.
package storefront

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/dailystore/storefront/cart"
	"github.com/dailystore/storefront/catalog"
	storeerrors "github.com/dailystore/storefront/internal/errors"
	"github.com/dailystore/storefront/kvstore"
	"github.com/dailystore/storefront/render"
	"github.com/dailystore/storefront/session"
)

// SearchStashKey carries a one-shot search query from one page to the
// next. The destination page pops it: read once, then deleted.
const SearchStashKey = "dailystore_search_q"

// Stores holds all store dependencies for the Service.
type Stores struct {
	Cart     *cart.Store
	Sessions *session.Store
	KV       kvstore.NotifyingStore
}

// Receipt describes a completed checkout. The reference is generated for
// the thank-you notice only; no order document is persisted.
type Receipt struct {
	Reference string
	Total     int
	ItemCount int
}

type Service struct {
	stores   Stores
	catalog  *catalog.Catalog
	log      zerolog.Logger
	orderRef func() string // injectable for testing
}

// Option defines a function type to modify the Service instance.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// WithOrderRef sets the checkout reference generator (primarily for testing).
func WithOrderRef(fn func() string) Option {
	return func(s *Service) { s.orderRef = fn }
}

func New(stores Stores, cat *catalog.Catalog, options ...Option) (*Service, error) {
	if stores.Cart == nil {
		return nil, errors.New("[storefront.New] Cart store is required")
	}
	if stores.Sessions == nil {
		return nil, errors.New("[storefront.New] Sessions store is required")
	}
	if stores.KV == nil {
		return nil, errors.New("[storefront.New] KV store is required")
	}
	if cat == nil {
		return nil, errors.New("[storefront.New] catalog is required")
	}

	s := &Service{
		stores:   stores,
		catalog:  cat,
		log:      zerolog.Nop(),
		orderRef: func() string { return uuid.New().String() },
	}
	for _, opt := range options {
		opt(s)
	}
	return s, nil
}

// Catalog returns the read-only product catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// AddToCart adds one unit of the product to the cart.
func (s *Service) AddToCart(id string) error {
	if err := s.stores.Cart.Add(id, 1); err != nil {
		return errors.Wrap(err, "[Service.AddToCart]")
	}
	s.log.Debug().Str("product", id).Msg("added to cart")
	return nil
}

// QuantityStep adjusts the quantity for id by delta. Stepping to zero or
// below removes the entry.
func (s *Service) QuantityStep(id string, delta int) error {
	qty := s.stores.Cart.Items()[id] + delta
	if err := s.stores.Cart.SetQuantity(id, qty); err != nil {
		return errors.Wrap(err, "[Service.QuantityStep]")
	}
	return nil
}

// RemoveItem removes the product from the cart unconditionally.
func (s *Service) RemoveItem(id string) error {
	if err := s.stores.Cart.Remove(id); err != nil {
		return errors.Wrap(err, "[Service.RemoveItem]")
	}
	return nil
}

// Checkout clears a non-empty cart and returns a receipt. An empty cart
// is left untouched and reported as ErrEmptyCart so the page can show
// the "cart is empty" notice. No order record is persisted.
func (s *Service) Checkout() (Receipt, error) {
	count := s.stores.Cart.ItemCount()
	if count == 0 {
		return Receipt{}, storeerrors.ErrEmptyCart
	}

	receipt := Receipt{
		Reference: s.orderRef(),
		Total:     s.stores.Cart.Total(),
		ItemCount: count,
	}
	if err := s.stores.Cart.Clear(); err != nil {
		return Receipt{}, errors.Wrap(err, "[Service.Checkout] clear cart")
	}

	s.log.Info().Str("reference", receipt.Reference).Int("total", receipt.Total).Msg("checkout complete")
	return receipt, nil
}

// Login authenticates against the registry and stores the session pointer.
func (s *Service) Login(email, password string) (session.User, error) {
	user, err := s.stores.Sessions.Login(email, password)
	if err != nil {
		return session.User{}, err
	}
	s.log.Debug().Str("email", user.Email).Msg("logged in")
	return user, nil
}

// Signup registers a new account. The new account is not logged in
// automatically; the page invites the user to log in.
func (s *Service) Signup(name, email, password string) error {
	return s.stores.Sessions.Register(name, email, password)
}

// Logout drops the session pointer.
func (s *Service) Logout() error {
	return s.stores.Sessions.Logout()
}

// CurrentUser resolves the session pointer, absent when logged out or
// when the pointer dangles.
func (s *Service) CurrentUser() (session.User, bool) {
	return s.stores.Sessions.CurrentUser()
}

// Search renders the catalog filtered by query.
func (s *Service) Search(query string) []render.Card {
	return render.Search(query, s.catalog.All())
}

// StashSearchQuery stores a one-shot query for the search page.
func (s *Service) StashSearchQuery(query string) error {
	if err := s.stores.KV.Write(SearchStashKey, query); err != nil {
		return errors.Wrap(err, "[Service.StashSearchQuery]")
	}
	return nil
}

// PopSearchQuery returns the stashed query and deletes it, at most once
// per stash.
func (s *Service) PopSearchQuery() (string, bool) {
	query, ok := s.stores.KV.Read(SearchStashKey)
	if !ok {
		return "", false
	}
	if err := s.stores.KV.Remove(SearchStashKey); err != nil {
		s.log.Warn().Err(err).Msg("failed to clear stashed search query")
	}
	return query, true
}

// CartRows joins the stored cart against the catalog for the cart page.
func (s *Service) CartRows() []render.CartRow {
	return render.CartRows(s.stores.Cart.Items(), s.catalog)
}

// CartCount returns the header badge count.
func (s *Service) CartCount() int { return s.stores.Cart.ItemCount() }

// CartTotal returns the cart total in minor units.
func (s *Service) CartTotal() int { return s.stores.Cart.Total() }

// OnCartChanged subscribes fn to cart document changes, local or from
// another process. The count is recomputed from storage on every event;
// there is no push of deltas.
func (s *Service) OnCartChanged(fn func(count int)) (cancel func()) {
	return s.stores.KV.OnExternalChange(func(key string) {
		if key != cart.StorageKey {
			return
		}
		fn(s.stores.Cart.ItemCount())
	})
}
