// Package web provides the JSON HTTP API for estateview.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bmizerany/pat"
	"github.com/justinas/alice"
	"github.com/rs/cors"

	"github.com/evcraddock/estateview/internal/browse"
	"github.com/evcraddock/estateview/internal/favorites"
	"github.com/evcraddock/estateview/internal/inquiry"
	"github.com/evcraddock/estateview/internal/logging"
	"github.com/evcraddock/estateview/internal/prefs"
)

// Deps are the components the API serves.
type Deps struct {
	Browse    *browse.Service
	Favorites *favorites.Store
	Prefs     *prefs.Store
	Inquiries *inquiry.Repository
}

// Server is the API HTTP server.
type Server struct {
	browse    *browse.Service
	favorites *favorites.Store
	prefs     *prefs.Store
	inquiries *inquiry.Repository
	handler   http.Handler

	closeOnce   sync.Once
	unsubscribe func()
}

// NewServer wires the routes and middleware. An empty corsOrigins allows
// any origin.
func NewServer(deps Deps, corsOrigins []string) *Server {
	s := &Server{
		browse:    deps.Browse,
		favorites: deps.Favorites,
		prefs:     deps.Prefs,
		inquiries: deps.Inquiries,
	}

	mux := pat.New()
	mux.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiError(w, "not found", http.StatusNotFound)
	})

	mux.Get("/health", http.HandlerFunc(s.handleHealth))

	mux.Get("/api/listings", http.HandlerFunc(s.handleListListings))
	mux.Get("/api/listings/:id", http.HandlerFunc(s.handleGetListing))
	mux.Get("/api/listings/:id/inquiries", http.HandlerFunc(s.handleListInquiries))
	mux.Post("/api/listings/:id/inquiries", http.HandlerFunc(s.handleAddInquiry))

	mux.Get("/api/favorites", http.HandlerFunc(s.handleListFavorites))
	mux.Post("/api/favorites/:id", http.HandlerFunc(s.handleAddFavorite))
	mux.Del("/api/favorites/:id", http.HandlerFunc(s.handleRemoveFavorite))

	mux.Get("/api/preferences", http.HandlerFunc(s.handleGetPreferences))
	mux.Put("/api/preferences/filters", http.HandlerFunc(s.handleUpdateFilter))
	mux.Del("/api/preferences/filters", http.HandlerFunc(s.handleClearFilters))
	mux.Put("/api/preferences/sort", http.HandlerFunc(s.handleSetSort))

	c := cors.New(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", logging.RequestIDHeader},
		ExposedHeaders: []string{logging.RequestIDHeader},
	})

	chain := alice.New(c.Handler, logging.RequestID, logging.RequestLogger, recoverPanic, secureHeaders)
	s.handler = chain.Then(mux)

	s.unsubscribe = s.favorites.Subscribe(func(entries []favorites.Entry) {
		slog.Debug("favorites changed", "count", len(entries))
	})

	return s
}

// Close detaches the server from the stores it watches. It is safe to call
// more than once.
func (s *Server) Close() {
	s.closeOnce.Do(s.unsubscribe)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// ListenAndServe serves on port until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s,
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting API server", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	slog.Info("shutting down API server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func secureHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "deny")
		next.ServeHTTP(w, r)
	})
}

func recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic serving request",
					"path", r.URL.Path,
					"error", fmt.Sprint(err),
					"request_id", logging.RequestIDFrom(r.Context()),
				)
				w.Header().Set("Connection", "close")
				apiError(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
