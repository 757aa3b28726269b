package server

import (
	"net/http"

	"github.com/dailystore/storefront/render"
)

// PageData is the template model every page shares: the injected header
// (cart badge, user area) plus any flash notice carried in the redirect.
type PageData struct {
	AppName   string
	CartCount int
	LoggedIn  bool
	UserName  string
	Notice    string
	Error     string
}

func (s *Server) basePage(r *http.Request) PageData {
	data := PageData{
		AppName:   s.config.GetAppName(),
		CartCount: s.shop.CartCount(),
		Notice:    r.URL.Query().Get("notice"),
		Error:     r.URL.Query().Get("error"),
	}
	if user, ok := s.shop.CurrentUser(); ok {
		data.LoggedIn = true
		data.UserName = user.Name
	}
	return data
}

// HomePageData backs the home page's login and signup forms.
type HomePageData struct {
	PageData
	Email string // Preserve email on error
}

// HomePageHandler renders the home page (login / signup)
func (s *Server) HomePageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("index.html")
	if err != nil {
		panic("Failed to parse index template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		data := HomePageData{
			PageData: s.basePage(r),
			Email:    r.URL.Query().Get("email"),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

// ProductsPageData backs the product grid, optionally filtered in place.
type ProductsPageData struct {
	PageData
	Query string
	Cards []render.Card
}

// ProductsPageHandler renders the catalog grid. A q parameter filters the
// grid in place, the way the products page search box works.
func (s *Server) ProductsPageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("products.html")
	if err != nil {
		panic("Failed to parse products template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		data := ProductsPageData{
			PageData: s.basePage(r),
			Query:    query,
			Cards:    s.shop.Search(query),
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

// CartPageData backs the cart page rows and total.
type CartPageData struct {
	PageData
	Rows       []render.CartRow
	TotalLabel string
	Empty      bool
}

// CartPageHandler renders the cart rows with quantity controls.
func (s *Server) CartPageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("cart.html")
	if err != nil {
		panic("Failed to parse cart template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rows := s.shop.CartRows()
		data := CartPageData{
			PageData:   s.basePage(r),
			Rows:       rows,
			TotalLabel: render.FormatPrice(s.shop.CartTotal()),
			Empty:      len(rows) == 0,
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

// SearchPageData backs the dedicated search page.
type SearchPageData struct {
	PageData
	Query     string
	Results   []render.Card
	NoResults bool
}

// SearchPageHandler renders the search page. The query comes from the q
// parameter or, when absent, from the one-shot stash written by the
// header search box on another page. An empty query renders the whole
// catalog, not an empty result.
func (s *Server) SearchPageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("search.html")
	if err != nil {
		panic("Failed to parse search template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			if stashed, ok := s.shop.PopSearchQuery(); ok {
				query = stashed
			}
		}

		results := s.shop.Search(query)
		data := SearchPageData{
			PageData:  s.basePage(r),
			Query:     query,
			Results:   results,
			NoResults: len(results) == 0,
		}
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, data)
	}
}

// AboutPageHandler renders the static about page.
func (s *Server) AboutPageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("about.html")
	if err != nil {
		panic("Failed to parse about template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, s.basePage(r))
	}
}

// ContactPageHandler renders the contact form.
func (s *Server) ContactPageHandler() http.HandlerFunc {
	tmpl, err := ParsePage("contact.html")
	if err != nil {
		panic("Failed to parse contact template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", contentTypeHTML)
		_ = tmpl.Execute(w, s.basePage(r))
	}
}
