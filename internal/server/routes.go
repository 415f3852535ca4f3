package server

import (
	"net/http"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware"
	"github.com/rs/cors"
)

const (
	recordInterestPath   = "/api/v1/collect/record-interest"
	maxRecordInterestReq = 4 << 10
)

func (s *Server) RegisterRoutes() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", webRouter(s))
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.Handle("/api/", http.StripPrefix("/api", apiRouter(s)))

	return middleware.MiddlewareChain(
		mux.ServeHTTP,
		s.LoggerInjector,
		middleware.Recoverer,
		// required for the rate limiters to function correctly and for logging
		middleware.RealIp(s.conf.TrustedIPHeaders...),
		middleware.RequestUUIDMiddleware,
		middleware.LocalizerInjector,
		middleware.RequestLogger,
		middleware.Heartbeat,
	)
}

func apiRouter(s *Server) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", v1Router(s)))

	return middleware.MiddlewareChain(
		mux.ServeHTTP,
		middleware.Cors(cors.Options{
			AllowedOrigins: s.conf.CORSAllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type", "Accept", "Accept-Language", "X-Request-UUID"},
			ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		}),
		middleware.CSRFProtection(s.conf.CORSAllowedOrigins...),
		middleware.Throttle(max(s.conf.MaxInFlight, 1)),
		middleware.RateLimiter(middleware.RemoteAddrKey, s.apiGuard, s.metrics),
	)
}

func v1Router(s *Server) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/collect/", http.StripPrefix("/collect", collectRouter(s)))

	if appenv.IsStagOrLocal() {
		mux.Handle("/dev-tools/", http.StripPrefix("/dev-tools", devToolsRouter(s)))
	}

	return mux
}
