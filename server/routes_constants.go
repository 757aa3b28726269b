package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Pages
	RouteHome     = "/{$}"
	RouteProducts = "/products"
	RouteCart     = "/cart"
	RouteSearch   = "/search"
	RouteAbout    = "/about"
	RouteContact  = "/contact"

	// Cart actions
	RouteCartAdd      = "/cart/add"
	RouteCartQuantity = "/cart/quantity"
	RouteCartRemove   = "/cart/remove"
	RouteCheckout     = "/checkout"

	// Auth actions
	RouteAuthLogin  = "/auth/login"
	RouteAuthSignup = "/auth/signup"
	RouteAuthLogout = "/auth/logout"

	// Header search box: stashes the query, then redirects to the
	// search page which pops it
	RouteSearchGo = "/search/go"

	// Contact form
	RouteContactSend = "/contact/send"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
