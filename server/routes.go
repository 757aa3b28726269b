package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	// Pages
	s.RegisterRouteHandler("GET "+RouteHome, ChainMiddleware(s.HomePageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteProducts, ChainMiddleware(s.ProductsPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteCart, ChainMiddleware(s.CartPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteSearch, ChainMiddleware(s.SearchPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAbout, ChainMiddleware(s.AboutPageHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteContact, ChainMiddleware(s.ContactPageHandler(), s.HTMLMiddleware()...))

	// Cart actions
	s.RegisterRouteHandler("POST "+RouteCartAdd, ChainMiddleware(s.AddToCartHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCartQuantity, ChainMiddleware(s.QuantityStepHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCartRemove, ChainMiddleware(s.RemoveItemHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteCheckout, ChainMiddleware(s.CheckoutHandler(), s.HTMLMiddleware()...))

	// Auth actions
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAuthSignup, ChainMiddleware(s.SignupSubmissionHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.HTMLMiddleware()...))

	// Search handoff and contact form
	s.RegisterRouteHandler("POST "+RouteSearchGo, ChainMiddleware(s.SearchGoHandler(), s.HTMLMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteContactSend, ChainMiddleware(s.ContactSendHandler(), s.HTMLMiddleware()...))

	// Static assets
	s.RegisterRouteHandler("GET "+RouteStaticCSS, ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		if err := StreamFile(w, r, filePath); err != nil {
			s.log.Debug().Err(err).Str("file", filePath).Msg("static file not found")
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}
