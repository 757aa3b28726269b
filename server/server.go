package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/dailystore/storefront/internal/config"
	"github.com/dailystore/storefront/storefront"
)

type Server struct {
	env    string // Environment (e.g., "DEV", "production")
	mux    *http.ServeMux
	routes []string
	config config.Config
	shop   *storefront.Service
	log    zerolog.Logger

	cancelCartWatch func()
}

func New(config config.Config, shop *storefront.Service, logger zerolog.Logger) (*Server, error) {
	if shop == nil {
		return nil, fmt.Errorf("[Server New] storefront service is required")
	}

	s := &Server{
		mux:    http.NewServeMux(),
		config: config,
		shop:   shop,
		log:    logger,
	}
	s.env = config.GetEnv()

	// Keep the header badge honest across processes: recompute the count
	// from storage whenever the cart document changes anywhere.
	s.cancelCartWatch = shop.OnCartChanged(func(count int) {
		s.log.Debug().Int("count", count).Msg("cart changed")
	})

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close cancels the cart change subscription.
func (s *Server) Close() {
	if s.cancelCartWatch != nil {
		s.cancelCartWatch()
	}
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
