// Package proxy exposes the Steam operations and the derived dashboard data
// over HTTP. The Steam API key never leaves the server.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/bobylevd/cs-stats-dash/app/dashboard"
	"github.com/bobylevd/cs-stats-dash/app/state"
	"github.com/bobylevd/cs-stats-dash/app/steam"
)

// Steam is the set of steam operations served by the proxy.
type Steam interface {
	dashboard.Steam
	ResolveVanity(ctx context.Context, vanity string) (string, error)
	GlobalAchievementPercentages(ctx context.Context) ([]steam.GlobalAchievement, error)
}

// Preferences keeps the identifier and the theme of each owner.
type Preferences interface {
	state.Persister
	Delete(ctx context.Context, owner string) error
}

// Server is the HTTP API of the dashboard.
type Server struct {
	Steam      Steam
	Dashboard  *dashboard.Service
	Store      Preferences
	CORSOrigin string
	Version    string
}

// Routes returns the handler serving the API.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", s.ping)

	mux.HandleFunc("GET /api/steam/resolve-vanity", s.resolveVanity)
	mux.HandleFunc("GET /api/steam/player-summary", s.playerSummary)
	mux.HandleFunc("GET /api/steam/owned-games", s.ownedGames)
	mux.HandleFunc("GET /api/steam/cs2-stats", s.cs2Stats)
	mux.HandleFunc("GET /api/steam/cs2-global-stats", s.cs2GlobalStats)
	mux.HandleFunc("GET /api/steam/news", s.news)

	mux.HandleFunc("GET /api/cs2/insights", s.insights)
	mux.HandleFunc("GET /api/library", s.library)
	mux.HandleFunc("GET /api/dashboard", s.dashboard)
	mux.HandleFunc("GET /api/preferences", s.getPreferences)
	mux.HandleFunc("PUT /api/preferences", s.putPreferences)
	mux.HandleFunc("DELETE /api/preferences", s.deletePreferences)

	return s.cors(logRequests(mux))
}

// Run serves the API on addr until the context is canceled.
// Blocking call.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Printf("[WARN] stopping http server with reason: %v", context.Cause(ctx))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	return nil
}

func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", s.CORSOrigin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder remembers the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		// path only, query strings carry player identifiers
		log.Printf("[DEBUG] %s %s %d %s", r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}

func (s *Server) ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "pong", "version": s.Version})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[WARN] failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := steam.StatusCode(err)
	if code >= http.StatusInternalServerError {
		log.Printf("[WARN] %s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		log.Printf("[DEBUG] %s %s: %v", r.Method, r.URL.Path, err)
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}
