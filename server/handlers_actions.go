package server

import (
	"fmt"
	"net/http"
	"net/url"

	storeerrors "github.com/dailystore/storefront/internal/errors"
	"github.com/dailystore/storefront/render"
)

const contentTypeHTML = "text/html; charset=utf-8"

// redirectWith sends a see-other redirect carrying flash parameters, the
// same way errors ride the query string on the login page.
func redirectWith(w http.ResponseWriter, r *http.Request, path string, params url.Values) {
	target := path
	if len(params) > 0 {
		target = path + "?" + params.Encode()
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// returnPath picks the page to land back on after a cart action.
func returnPath(r *http.Request) string {
	if back := r.FormValue("return"); back != "" {
		return back
	}
	return RouteProducts
}

// AddToCartHandler handles the add-to-cart form on any product grid.
func (s *Server) AddToCartHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		id := r.FormValue("product_id")
		if id == "" {
			http.Error(w, "product_id is required", http.StatusBadRequest)
			return
		}

		if err := s.shop.AddToCart(id); err != nil {
			s.log.Error().Err(err).Str("product", id).Msg("add to cart failed")
			redirectWith(w, r, returnPath(r), url.Values{"error": {"Could not update the cart."}})
			return
		}
		redirectWith(w, r, returnPath(r), url.Values{"notice": {"Added to cart"}})
	}
}

// QuantityStepHandler handles the +/- controls on the cart page.
func (s *Server) QuantityStepHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		id := r.FormValue("product_id")
		delta := 1
		if r.FormValue("step") == "down" {
			delta = -1
		}

		if err := s.shop.QuantityStep(id, delta); err != nil {
			s.log.Error().Err(err).Str("product", id).Msg("quantity step failed")
			redirectWith(w, r, RouteCart, url.Values{"error": {"Could not update the cart."}})
			return
		}
		redirectWith(w, r, RouteCart, nil)
	}
}

// RemoveItemHandler handles the remove button on a cart row.
func (s *Server) RemoveItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		if err := s.shop.RemoveItem(r.FormValue("product_id")); err != nil {
			s.log.Error().Err(err).Msg("remove item failed")
			redirectWith(w, r, RouteCart, url.Values{"error": {"Could not update the cart."}})
			return
		}
		redirectWith(w, r, RouteCart, nil)
	}
}

// CheckoutHandler clears a non-empty cart. There is no payment and no
// persisted order; the receipt reference only lives in the notice. A
// visitor without a session checks out as guest.
func (s *Server) CheckoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		receipt, err := s.shop.Checkout()
		if storeerrors.Is(err, storeerrors.ErrEmptyCart) {
			redirectWith(w, r, RouteCart, url.Values{"error": {"Your cart is empty."}})
			return
		}
		if err != nil {
			s.log.Error().Err(err).Msg("checkout failed")
			redirectWith(w, r, RouteCart, url.Values{"error": {"Checkout failed, please try again."}})
			return
		}

		notice := fmt.Sprintf("Thank you! Order %s placed for %s. (No real payment.)",
			receipt.Reference, render.FormatPrice(receipt.Total))
		if _, ok := s.shop.CurrentUser(); !ok {
			notice += " Checked out as guest."
		}
		redirectWith(w, r, RouteCart, url.Values{"notice": {notice}})
	}
}

// LoginSubmissionHandler handles the login form on the home page.
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")

		user, err := s.shop.Login(email, password)
		if err != nil {
			// Preserve the typed-in email so the form can re-fill it
			redirectWith(w, r, "/", url.Values{
				"error": {userMessage(err)},
				"email": {email},
			})
			return
		}
		redirectWith(w, r, "/", url.Values{"notice": {"Welcome, " + user.Name}})
	}
}

// SignupSubmissionHandler handles the signup form on the home page.
func (s *Server) SignupSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		name := r.FormValue("name")
		email := r.FormValue("email")
		password := r.FormValue("password")
		if name == "" || email == "" || password == "" {
			redirectWith(w, r, "/", url.Values{"error": {"Please fill all fields."}})
			return
		}

		if err := s.shop.Signup(name, email, password); err != nil {
			redirectWith(w, r, "/", url.Values{"error": {userMessage(err)}})
			return
		}
		redirectWith(w, r, "/", url.Values{"notice": {"Account created. You can login now."}})
	}
}

// LogoutHandler drops the session and lands back on the home page.
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.shop.Logout(); err != nil {
			s.log.Error().Err(err).Msg("logout failed")
		}
		redirectWith(w, r, "/", nil)
	}
}

// SearchGoHandler handles the header search box: stash the query for the
// search page and redirect there. An empty query goes straight to the
// product grid.
func (s *Server) SearchGoHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}

		query := r.FormValue("q")
		if query == "" {
			redirectWith(w, r, RouteProducts, nil)
			return
		}
		if err := s.shop.StashSearchQuery(query); err != nil {
			s.log.Error().Err(err).Msg("failed to stash search query")
		}
		redirectWith(w, r, RouteSearch, nil)
	}
}

// ContactSendHandler accepts the contact form and shows the success
// notice. Nothing is stored or sent.
func (s *Server) ContactSendHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		redirectWith(w, r, RouteContact, url.Values{"notice": {"Thanks! We received your message."}})
	}
}

// userMessage maps typed store failures to the inline message shown next
// to the form; anything unexpected gets a generic line.
func userMessage(err error) string {
	switch {
	case storeerrors.Is(err, storeerrors.ErrDuplicateEmail):
		return "Email already exists."
	case storeerrors.Is(err, storeerrors.ErrUnknownUser):
		return "No account with this email."
	case storeerrors.Is(err, storeerrors.ErrWrongPassword):
		return "Incorrect password."
	default:
		return "Something went wrong, please try again."
	}
}
