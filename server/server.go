package server

import (
	"fmt"
	"net/http"

	"github.com/jobmatch/go-jobmatch-server/auth"
	"github.com/jobmatch/go-jobmatch-server/internal/config"
	"github.com/jobmatch/go-jobmatch-server/internal/rate"
	"github.com/jobmatch/go-jobmatch-server/profiles"
	"github.com/jobmatch/go-jobmatch-server/session"
	"github.com/jobmatch/go-jobmatch-server/users"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
)

// Repos holds the collaborator storage dependencies of the server.
type Repos struct {
	Users    users.UserRepo
	Profiles profiles.Repo
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	codec    *session.Codec
	cookies  *session.CookieStore
	gate     *auth.Gate
	repos    Repos
	profiles *profiles.Service
	limiter  *rate.Limiter // nil when rate limiting is disabled
	sso      *ssoProvider  // nil when SSO login is not configured
	cors     *cors.Cors
}

// ServerOption defines a function type to modify the Server instance.
type ServerOption func(*Server)

// WithLoginLimiter enables login rate limiting backed by the given limiter.
func WithLoginLimiter(limiter *rate.Limiter) ServerOption {
	return func(s *Server) {
		s.limiter = limiter
	}
}

func New(cfg config.Config, repos Repos, options ...ServerOption) (*Server, error) {
	codec, err := session.NewCodec(cfg.GetSessionKey(), cfg.GetSessionIssuer(), session.WithTTL(cfg.GetSessionTTL()))
	if err != nil {
		return nil, fmt.Errorf("[Server New] session codec: %w", err)
	}

	gate, err := auth.NewGate(codec, repos.Users, repos.Profiles)
	if err != nil {
		return nil, fmt.Errorf("[Server New] authorization gate: %w", err)
	}

	profileService, err := profiles.NewService(repos.Users, repos.Profiles)
	if err != nil {
		return nil, fmt.Errorf("[Server New] profile service: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		codec:    codec,
		cookies:  session.NewCookieStore(codec, cfg.GetEnv() == "PROD"),
		gate:     gate,
		repos:    repos,
		profiles: profileService,
		cors: cors.New(cors.Options{
			AllowedOrigins:   cfg.GetAllowedOrigins(),
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}),
	}

	for _, opt := range options {
		opt(s)
	}

	if cfg.GetSSOIssuer() != "" {
		sso, err := newSSOProvider(cfg)
		if err != nil {
			return nil, fmt.Errorf("[Server New] sso provider: %w", err)
		}
		s.sso = sso
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
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
		log.Debug().Str("route", route).Msg("registered")
	}
}
