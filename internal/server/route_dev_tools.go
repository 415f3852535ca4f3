package server

import (
	"expvar"
	"net/http"
	"net/http/pprof"
)

func devToolsRouter(s *Server) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.healthHandler)

	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.RequestURI+"pprof/", http.StatusMovedPermanently)
	})
	mux.HandleFunc("GET /pprof", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.RequestURI+"/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("GET /pprof/", pprof.Index)
	mux.HandleFunc("GET /pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("GET /pprof/profile", pprof.Profile)
	mux.HandleFunc("GET /pprof/symbol", pprof.Symbol)
	mux.HandleFunc("GET /pprof/trace", pprof.Trace)
	mux.Handle("GET /vars", expvar.Handler())

	for _, name := range []string{"goroutine", "threadcreate", "mutex", "heap", "block", "allocs"} {
		mux.Handle("GET /pprof/"+name, pprof.Handler(name))
	}

	return mux
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := map[string]any{
		"status": "up",
		"sink":   s.conf.Sink,
	}
	if s.db != nil {
		stats["database"] = s.db.Health(ctx)
	}
	if s.rdb != nil {
		redisStatus := "up"
		if err := s.rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "down"
		}
		stats["redis"] = redisStatus
	}
	writeJson(ctx, w, http.StatusOK, stats)
}
