// Package api serves generated stars, systems, regions and small bodies
// over HTTP.
// GET endpoints are public and read-only; every generated answer is a pure
// function of the request. POST endpoints write to the catalog and require
// a bearer token.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/talgya/starforge/internal/astro"
	"github.com/talgya/starforge/internal/catalog"
	"github.com/talgya/starforge/internal/galaxy"
	"github.com/talgya/starforge/internal/smallbody"
	"github.com/talgya/starforge/internal/stellar"
	"github.com/talgya/starforge/internal/system"
)

// Request size caps for the parameter-scaled endpoints.
const (
	maxSurveyCandidates = 5000
	maxVolumeBodies     = 20000
	maxSeedsPerSave     = 1000
	maxProfileSamples   = 10000
)

// Server serves generation results over HTTP.
type Server struct {
	Gen         *system.Generator
	Galaxy      galaxy.Galaxy
	DB          *catalog.DB // Nil disables catalog endpoints.
	Addr        string
	AdminKey    string   // Bearer token for POST endpoints. Empty = POST disabled.
	CORSOrigins []string // Extra allowed origins; localhost dev servers are always allowed.
	Version     string

	HeavyPerMinute int  // Survey and volume requests per IP per minute; 0 means 60.
	TrustProxy     bool // Take client IPs from X-Forwarded-For.

	limiter *RateLimiter
}

// Handler builds the routing tree.
func (s *Server) Handler() http.Handler {
	if s.limiter == nil {
		rate := s.HeavyPerMinute
		if rate == 0 {
			rate = 60
		}
		s.limiter = NewRateLimiter(rate, time.Minute)
	}

	mux := http.NewServeMux()

	// Public generation endpoints.
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/star/", s.handleStar)
	mux.HandleFunc("/api/v1/system/", s.handleSystem)
	mux.HandleFunc("/api/v1/region", s.handleRegion)
	mux.HandleFunc("/api/v1/profile", s.handleProfile)
	mux.HandleFunc("/api/v1/bodies", RateLimitMiddleware(s.limiter, s.TrustProxy, s.handleBodies))
	mux.HandleFunc("/api/v1/survey", RateLimitMiddleware(s.limiter, s.TrustProxy, s.handleSurvey))

	// Catalog endpoints. POST requires a bearer token.
	mux.HandleFunc("/api/v1/catalog/systems", s.adminOnly(s.handleCatalogSystems))
	mux.HandleFunc("/api/v1/catalog/system/", s.handleCatalogSystem)

	return corsMiddleware(s.CORSOrigins, mux)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.limiter.Sweep(); n > 0 {
					slog.Debug("rate limiter swept", "buckets", n)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	slog.Info("HTTP API starting", "addr", s.Addr, "admin_auth", s.AdminKey != "", "catalog", s.DB != nil)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("HTTP API stopped")
	return nil
}

// corsMiddleware adds CORS headers for allowed frontend origins.
func corsMiddleware(origins []string, next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	for _, origin := range origins {
		if origin = strings.TrimSpace(origin); origin != "" {
			allowedOrigins[origin] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkBearerToken returns true if the request has a valid admin bearer token.
func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require bearer token auth on POST requests.
// GET requests pass through.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if s.AdminKey == "" {
				http.Error(w, "admin endpoints disabled (no STARFORGE_ADMIN_KEY set)", http.StatusForbidden)
				return
			}
			if !s.checkBearerToken(r) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"name":      "starforge",
		"version":   s.Version,
		"galaxy":    s.Galaxy,
		"catalog":   s.DB != nil,
		"admin":     s.AdminKey != "",
		"types":     stellar.Types(),
		"reference": galaxy.ReferenceDensity,
	})
}

// handleStar serves GET /api/v1/star/:seed.
func (s *Server) handleStar(w http.ResponseWriter, r *http.Request) {
	seed, ok := pathSeed(w, r, "/api/v1/star/")
	if !ok {
		return
	}
	writeJSON(w, stellar.GenerateWithSeed(seed))
}

// handleSystem serves GET /api/v1/system/:seed.
func (s *Server) handleSystem(w http.ResponseWriter, r *http.Request) {
	seed, ok := pathSeed(w, r, "/api/v1/system/")
	if !ok {
		return
	}
	writeJSON(w, s.Gen.GenerateWithSeed(seed))
}

// handleRegion serves GET /api/v1/region?x=&y=&z=[&seed=]. With a seed the
// response also carries the density-gated system, or null when rejected.
func (s *Server) handleRegion(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	x, y, z := q.float("x", 0), q.float("y", 0), q.float("z", 0)
	seed, hasSeed := q.seed("seed")
	if q.err != nil {
		http.Error(w, q.err.Error(), http.StatusBadRequest)
		return
	}

	region := s.Galaxy.GenerateRegion(x, y, z)
	resp := map[string]any{
		"region":     region,
		"acceptance": region.AcceptanceProbability(),
	}
	if offset, ok := s.Galaxy.ArmOffset(region); ok {
		resp["arm_offset"] = offset
	}
	if hasSeed {
		sys, _ := region.GenerateSolarSystem(s.Gen, seed)
		resp["system"] = sys
	}
	writeJSON(w, resp)
}

// handleProfile serves GET /api/v1/profile?from=&to=&step=.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	from, to, step := q.float("from", 0), q.float("to", 20000), q.float("step", 1000)
	if q.err != nil {
		http.Error(w, q.err.Error(), http.StatusBadRequest)
		return
	}
	if step <= 0 || to < from || (to-from)/step > maxProfileSamples {
		http.Error(w, "invalid profile range", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.Galaxy.DensityProfile(from, to, step))
}

// handleBodies serves GET /api/v1/bodies?seed=&x=&y=&z=&radius=[&density=].
// Coordinates are AU with the star at the origin.
func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	q := queryReader{r: r}
	seed, hasSeed := q.seed("seed")
	center := astro.Position{X: q.float("x", 0), Y: q.float("y", 0), Z: q.float("z", 0)}
	radius := q.float("radius", 0.5)
	density := q.float("density", smallbody.BeltDensity(center.Norm()))
	if q.err != nil {
		http.Error(w, q.err.Error(), http.StatusBadRequest)
		return
	}
	if !hasSeed {
		http.Error(w, "missing seed", http.StatusBadRequest)
		return
	}
	if radius < 0 || smallbody.Count(radius, density) > maxVolumeBodies {
		http.Error(w, "volume too large", http.StatusBadRequest)
		return
	}

	sys := s.Gen.GenerateWithSeed(seed)
	bodies := smallbody.Populate(sys, center, radius, density)
	if bodies == nil {
		bodies = []smallbody.SmallBody{}
	}
	writeJSON(w, map[string]any{
		"system_id": sys.ID,
		"density":   density,
		"bodies":    bodies,
	})
}

// handleSurvey serves GET /api/v1/survey with optional seed, x, y, z,
// half_width, candidates and octaves; unset values use DefaultSurveyConfig.
func (s *Server) handleSurvey(w http.ResponseWriter, r *http.Request) {
	cfg := galaxy.DefaultSurveyConfig()
	q := queryReader{r: r}
	if seed, ok := q.seed("seed"); ok {
		cfg.Seed = seed
	}
	cfg.CenterX = q.float("x", cfg.CenterX)
	cfg.CenterY = q.float("y", cfg.CenterY)
	cfg.CenterZ = q.float("z", cfg.CenterZ)
	cfg.HalfWidth = q.float("half_width", cfg.HalfWidth)
	cfg.Candidates = q.integer("candidates", cfg.Candidates)
	cfg.Octaves = q.integer("octaves", cfg.Octaves)
	if q.err != nil {
		http.Error(w, q.err.Error(), http.StatusBadRequest)
		return
	}
	if cfg.Candidates < 0 || cfg.Candidates > maxSurveyCandidates {
		http.Error(w, fmt.Sprintf("candidates must be 0..%d", maxSurveyCandidates), http.StatusBadRequest)
		return
	}
	if cfg.Octaves < 0 || cfg.Octaves > galaxy.MaxOctaves {
		http.Error(w, fmt.Sprintf("octaves must be 0..%d", galaxy.MaxOctaves), http.StatusBadRequest)
		return
	}

	entries := s.Galaxy.Survey(s.Gen, cfg)
	if entries == nil {
		entries = []galaxy.SurveyEntry{}
	}
	writeJSON(w, entries)
}

// handleCatalogSystems lists cataloged systems on GET, filtered by the
// optional ?type= and ?habitable=true, and generates and stores systems on
// POST.
func (s *Server) handleCatalogSystems(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "catalog disabled", http.StatusServiceUnavailable)
		return
	}

	switch r.Method {
	case http.MethodGet:
		q := queryReader{r: r}
		filter := catalog.SystemFilter{HabitableOnly: q.boolean("habitable")}
		if q.err != nil {
			http.Error(w, q.err.Error(), http.StatusBadRequest)
			return
		}
		if name := r.URL.Query().Get("type"); name != "" {
			t, err := stellar.ParseStellarType(name)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			filter.Type = &t
		}
		summaries, err := s.DB.Systems(filter)
		if err != nil {
			slog.Error("catalog query failed", "error", err)
			http.Error(w, "catalog query failed", http.StatusInternalServerError)
			return
		}
		if summaries == nil {
			summaries = []catalog.SystemSummary{}
		}
		writeJSON(w, summaries)

	case http.MethodPost:
		var req struct {
			Seeds []uint64 `json:"seeds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		if len(req.Seeds) == 0 || len(req.Seeds) > maxSeedsPerSave {
			http.Error(w, fmt.Sprintf("seeds must hold 1..%d values", maxSeedsPerSave), http.StatusBadRequest)
			return
		}

		ids := make([]uuid.UUID, 0, len(req.Seeds))
		for _, seed := range req.Seeds {
			sys := s.Gen.GenerateWithSeed(seed)
			if err := s.DB.SaveSystem(sys); err != nil {
				slog.Error("catalog save failed", "seed", seed, "error", err)
				http.Error(w, "catalog save failed", http.StatusInternalServerError)
				return
			}
			ids = append(ids, sys.ID)
		}
		slog.Info("systems cataloged via API", "count", len(ids))
		writeJSON(w, map[string]any{"saved": len(ids), "ids": ids})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCatalogSystem serves GET /api/v1/catalog/system/:id with the
// system's recorded small bodies.
func (s *Server) handleCatalogSystem(w http.ResponseWriter, r *http.Request) {
	if s.DB == nil {
		http.Error(w, "catalog disabled", http.StatusServiceUnavailable)
		return
	}
	id, err := uuid.Parse(strings.TrimPrefix(r.URL.Path, "/api/v1/catalog/system/"))
	if err != nil {
		http.Error(w, "invalid system id", http.StatusBadRequest)
		return
	}

	sys, err := s.DB.LoadSystem(id)
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "system not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("catalog load failed", "id", id, "error", err)
		http.Error(w, "catalog load failed", http.StatusInternalServerError)
		return
	}
	bodies, err := s.DB.LoadSmallBodies(id)
	if err != nil {
		slog.Error("catalog load failed", "id", id, "error", err)
		http.Error(w, "catalog load failed", http.StatusInternalServerError)
		return
	}
	if bodies == nil {
		bodies = []smallbody.SmallBody{}
	}
	writeJSON(w, map[string]any{"system": sys, "small_bodies": bodies})
}

func pathSeed(w http.ResponseWriter, r *http.Request, prefix string) (uint64, bool) {
	seed, err := strconv.ParseUint(strings.TrimPrefix(r.URL.Path, prefix), 10, 64)
	if err != nil {
		http.Error(w, "invalid seed", http.StatusBadRequest)
		return 0, false
	}
	return seed, true
}

// queryReader parses query parameters, keeping the first error.
type queryReader struct {
	r   *http.Request
	err error
}

func (q *queryReader) float(key string, def float64) float64 {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		q.err = fmt.Errorf("invalid %s", key)
		return def
	}
	return v
}

func (q *queryReader) integer(key string, def int) int {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		q.err = fmt.Errorf("invalid %s", key)
		return def
	}
	return v
}

func (q *queryReader) boolean(key string) bool {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		q.err = fmt.Errorf("invalid %s", key)
		return false
	}
	return v
}

func (q *queryReader) seed(key string) (uint64, bool) {
	s := q.r.URL.Query().Get(key)
	if s == "" || q.err != nil {
		return 0, false
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		q.err = fmt.Errorf("invalid %s", key)
		return 0, false
	}
	return v, true
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("response write failed", "error", err)
	}
}
