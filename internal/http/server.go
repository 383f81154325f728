package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"compras/internal/cache"
	"compras/internal/core"
	"compras/internal/middleware/ratelimit"
	"compras/internal/middleware/security"
	"compras/internal/middleware/trace"
	"compras/internal/services"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// Server is the JSON API server. Item lists are cached per profile with
// LRU+TTL eviction and invalidated on every mutation, so projections are
// always computed from fresh data after a write.
type Server struct {
	http.Server

	items    *services.ItemService
	profiles *services.ProfileService

	limiter     *ratelimit.Limiter
	tracer      *trace.Middleware
	headers     *security.HeadersMiddleware
	ipExtractor *security.ClientIPExtractor

	itemsCache   *cache.LRUCache[[]core.Item]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, items *services.ItemService, profiles *services.ProfileService) *Server {
	mux := http.NewServeMux()

	ipExtractor := security.NewClientIPExtractor()

	s := &Server{
		items:       items,
		profiles:    profiles,
		limiter:     ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		tracer:      trace.NewMiddleware(ipExtractor.ExtractClientIP),
		headers:     security.NewHeadersMiddleware(security.DefaultHeadersConfig()),
		ipExtractor: ipExtractor,
		itemsCache:  cache.NewLRUCache[[]core.Item](100, 5*time.Minute),
	}

	s.cacheManager = cache.NewManager()
	s.cacheManager.Register(s.itemsCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/api/profiles", s.handleProfiles)
	mux.HandleFunc("/api/session/profile", s.handleSessionProfile)
	mux.HandleFunc("/api/items", s.handleItems)
	mux.HandleFunc("/api/items/status", s.handleItemStatus)
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/ledger", s.handleLedger)

	// Writes are rate limited per client; reads stay cheap through the
	// cache.
	limited := s.limiter.Middleware(ipExtractor.ExtractClientIP, nil)
	handler := s.headers.Middleware(s.tracer.Middleware(limited(mux)))

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// listItems returns the profile's items, served from the cache when
// possible.
func (s *Server) listItems(ctx context.Context, profileID string) ([]core.Item, error) {
	if cached, found := s.itemsCache.Get(profileID); found {
		out := make([]core.Item, len(cached))
		copy(out, cached)
		return out, nil
	}

	items, err := s.items.List(ctx, profileID)
	if err != nil {
		return nil, err
	}

	s.itemsCache.Set(profileID, items)
	return items, nil
}

func (s *Server) invalidateItems(profileID string) {
	s.itemsCache.Delete(profileID)
}
