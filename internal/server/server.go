package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv"
	"github.com/Nidal-Bakir/zeau-landing/internal/database"
	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/Nidal-Bakir/zeau-landing/internal/gateway"
	"github.com/Nidal-Bakir/zeau-landing/internal/metrics"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokenlimiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Config struct {
	Port int
	Sink Sink

	// record interest limiter
	Limit         int
	Interval      time.Duration
	Capacity      int
	LimitScope    interest.LimitScope
	AppendTimeout time.Duration

	// per IP guard in front of the whole api, 0 disables it
	APIRatePerMinute int
	MaxInFlight      int
	UseRedis         bool

	CORSAllowedOrigins []string
	TrustedIPHeaders   []string

	Sheets gateway.SheetsConfig
}

func ConfigFromEnv() Config {
	defaultSink := SinkSheets
	if appenv.IsLocal() {
		defaultSink = SinkLog
	}

	return Config{
		Port: appenv.Int("PORT", 8080),
		Sink: Sink(appenv.String("INTEREST_SINK", string(defaultSink))),

		Limit:         appenv.Int("RECORD_INTEREST_LIMIT", interest.DefaultLimit),
		Interval:      appenv.Duration("RECORD_INTEREST_INTERVAL", interest.DefaultInterval),
		Capacity:      appenv.Int("RECORD_INTEREST_CAPACITY", interest.DefaultCapacity),
		LimitScope:    interest.LimitScope(appenv.String("RECORD_INTEREST_LIMIT_SCOPE", string(interest.LimitScopeGlobal))),
		AppendTimeout: appenv.Duration("RECORD_INTEREST_APPEND_TIMEOUT", interest.DefaultAppendTimeout),

		APIRatePerMinute: appenv.Int("API_RATE_LIMIT_PER_MINUTE", 30),
		MaxInFlight:      appenv.Int("API_MAX_IN_FLIGHT", 100),
		UseRedis:         appenv.String("REDIS_ADDR", "") != "",

		CORSAllowedOrigins: appenv.List("CORS_ALLOWED_ORIGINS", nil),
		TrustedIPHeaders:   appenv.List("TRUSTED_IP_HEADERS", nil),

		Sheets: gateway.SheetsConfig{
			ClientEmail:   appenv.String("GCP_CLIENT_EMAIL", ""),
			PrivateKey:    appenv.String("GCP_PRIVATE_KEY", ""),
			SpreadsheetID: appenv.String("GCP_SHEET_ID", ""),
			Range:         appenv.String("GCP_SHEET_RANGE", gateway.DefaultSheetRange),
		},
	}
}

type Server struct {
	conf Config
	log  zerolog.Logger

	// nil unless the postgres sink is used
	db *database.Service
	// nil unless REDIS_ADDR is set
	rdb *redis.Client

	metrics         *metrics.Recorder
	interestLimiter *tokenlimiter.Limiter
	interestRepo    interest.Repository
	apiGuard        ratelimiter.Limiter

	// stops the background work started for the server
	cancel context.CancelFunc
}

// NewServer connects to whatever the configuration asks for and wires the
// record interest flow. Call Close when done.
func NewServer(ctx context.Context, log zerolog.Logger, conf Config) (*Server, error) {
	s := &Server{conf: conf, log: log}

	appender, err := s.newAppender(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}

	if conf.UseRedis {
		s.rdb, err = s.newRedisClient(ctx)
		if err != nil {
			s.Close()
			return nil, err
		}
	}

	if err := s.wire(ctx, appender); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Server) wire(ctx context.Context, appender interest.Appender) error {
	tokenFn, err := s.conf.LimitScope.TokenFn()
	if err != nil {
		return err
	}

	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	s.metrics = metrics.NewRecorder()
	s.interestLimiter = s.newInterestLimiter()
	s.interestRepo = interest.NewRepository(
		s.interestLimiter,
		appender,
		interest.Options{Limit: s.conf.Limit, TokenFn: tokenFn, AppendTimeout: s.conf.AppendTimeout},
		s.metrics,
	)
	s.apiGuard = s.newAPIGuard(bgCtx)

	s.log.Info().
		Str("sink", string(s.conf.Sink)).
		Int("limit", s.conf.Limit).
		Dur("interval", s.conf.Interval).
		Int("capacity", s.conf.Capacity).
		Str("limit_scope", string(s.conf.LimitScope)).
		Msg("Record interest wired")
	return nil
}

func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", s.conf.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.conf.AppendTimeout + 20*time.Second,
	}
}

// Close releases everything NewServer opened. Safe on a partially built server.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	if s.interestLimiter != nil {
		s.interestLimiter.Close()
	}
	if s.db != nil {
		s.db.Close()
	}

	var err error
	if s.rdb != nil {
		err = errors.Join(err, s.rdb.Close())
	}
	return err
}
