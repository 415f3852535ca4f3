package server

import (
	"context"
	"fmt"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/database"
	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/Nidal-Bakir/zeau-landing/internal/gateway"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter/mem_ratelimiter"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter/redis_ratelimiter"
	redisdb "github.com/Nidal-Bakir/zeau-landing/internal/redis_db"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokencache"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokenlimiter"
	"github.com/redis/go-redis/v9"
)

// Sink is where interest records end up.
type Sink string

const (
	SinkSheets   Sink = "sheets"
	SinkPostgres Sink = "postgres"
	SinkLog      Sink = "log"
)

func (s *Server) newAppender(ctx context.Context) (interest.Appender, error) {
	switch s.conf.Sink {
	case SinkSheets:
		return gateway.NewSheetsAppender(ctx, s.conf.Sheets)

	case SinkPostgres:
		db, err := database.NewConnection(ctx, database.ConfigFromEnv(), s.log)
		if err != nil {
			return nil, err
		}
		s.db = db
		return gateway.NewPostgresAppender(db.ConnPool), nil

	case SinkLog:
		return gateway.LogAppender{}, nil

	default:
		return nil, fmt.Errorf("unsupported INTEREST_SINK: %q", string(s.conf.Sink))
	}
}

func (s *Server) newRedisClient(ctx context.Context) (*redis.Client, error) {
	return redisdb.NewRedisClient(ctx, redisdb.ConfigFromEnv(), s.log)
}

func (s *Server) newInterestLimiter() *tokenlimiter.Limiter {
	capacity := s.conf.Capacity
	if capacity <= 0 {
		capacity = interest.DefaultCapacity
	}
	interval := s.conf.Interval
	if interval <= 0 {
		interval = interest.DefaultInterval
	}
	return tokenlimiter.New(tokencache.New(tokencache.Config{Capacity: capacity, Interval: interval}))
}

// newAPIGuard shares the limit across instances through redis when there is
// one, otherwise each process keeps its own buckets.
func (s *Server) newAPIGuard(ctx context.Context) ratelimiter.Limiter {
	conf := ratelimiter.Config{
		RequestsPerTimeFrame: s.conf.APIRatePerMinute,
		TimeFrame:            time.Minute,
		Enabled:              s.conf.APIRatePerMinute > 0,
		KeyPrefix:            "api",
	}
	if s.rdb != nil {
		return redis_ratelimiter.NewRedisFixedWindowLimiter(s.rdb, conf)
	}
	return mem_ratelimiter.NewTokenBucketLimiter(ctx, conf)
}
