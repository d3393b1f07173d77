package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const (
	userContextKey   = contextKey("user")
	adminUser        = "admin"
	refreshRateLimit = "6-M"
)

type contextKey string

// Server publishes archived scoreboards. When a JWT secret is configured it
// also accepts authenticated refresh requests that re-run the pipeline.
type Server struct {
	archive        *Archive
	pipeline       *Pipeline
	jwtKey         []byte
	refreshLimiter *limiter.Limiter
	refreshMu      sync.Mutex
	log            logrus.FieldLogger
	r              chi.Router
}

func NewServer(archive *Archive, pipeline *Pipeline, jwtSecret string, log logrus.FieldLogger) (*Server, error) {
	rate, err := limiter.NewRateFromFormatted(refreshRateLimit)
	if err != nil {
		return nil, err
	}

	s := &Server{
		archive:        archive,
		pipeline:       pipeline,
		jwtKey:         []byte(jwtSecret),
		refreshLimiter: limiter.New(memory.NewStore(), rate),
		log:            log,
	}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/tournaments/{id}/scoreboard", s.GETScoreboard)
	r.Get("/tournaments/{id}/scoreboard.html", s.GETScoreboardHTML)
	r.Get("/tournaments/{id}/runs", s.GETRuns)
	r.Handle("/metrics", promhttp.Handler())
	if len(s.jwtKey) > 0 {
		r.Post("/refresh", s.authMiddleware(s.POSTRefresh))
	}

	s.r = r
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.r.ServeHTTP(w, r)
}

// ListenAndServe blocks until ctx is cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	s.log.Infof("Serving scoreboards on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// mintAdminToken signs a token accepted by the refresh endpoint.
func mintAdminToken(secret string, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: adminUser,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Validate the bearer JWT in the Authorization header.
func (s *Server) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
			http.Error(w, "Missing auth token", http.StatusUnauthorized)
			return
		}

		claims := &Claims{}
		token, err := jwt.ParseWithClaims(authHeader[7:], claims, func(t *jwt.Token) (interface{}, error) {
			return s.jwtKey, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

		if err != nil || !token.Valid || claims.Username != adminUser {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
