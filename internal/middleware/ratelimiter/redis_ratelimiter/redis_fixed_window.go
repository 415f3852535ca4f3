package redis_ratelimiter

import (
	"context"
	"strconv"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/middleware/ratelimiter"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func NewRedisFixedWindowLimiter(rdb redis.Cmdable, conf ratelimiter.Config) ratelimiter.Limiter {
	return &redisRatelimiter{
		conf:  conf,
		rdb:   rdb,
		now:   time.Now,
		allow: fixedWindowAllow,
	}
}

// fixedWindowKey buckets the key by the window the current time falls in.
func fixedWindowKey(key string, now time.Time, window time.Duration) string {
	return key + ":" + strconv.FormatInt(now.UnixMilli()/window.Milliseconds(), 10)
}

// fixedWindowAllow counts with INCR and sets the expiry on the first hit of a window.
// Redis failures reject the request.
func fixedWindowAllow(ctx context.Context, key string, l *redisRatelimiter) (bool, time.Duration) {
	perTimeFrame := l.conf.RequestsPerTimeFrame
	timeFrame := l.conf.TimeFrame
	log := zerolog.Ctx(ctx).With().Str("key", key).Int("per_time_frame", perTimeFrame).Dur("time_frame", timeFrame).Logger()

	keyTimeFrame := fixedWindowKey(key, l.now(), timeFrame)

	hits, err := l.rdb.Incr(ctx, keyTimeFrame).Result()
	if err != nil {
		log.Err(err).Msg("Can't rate limit, got an error from redis while incr the key value. Rejecting the request")
		return false, timeFrame
	}

	if hits == 1 {
		if err := l.rdb.Expire(ctx, keyTimeFrame, timeFrame).Err(); err != nil {
			log.Err(err).Msg("Can't set the window expiry on the key")
		}
	}

	if hits > int64(perTimeFrame) {
		remainingTime, err := l.rdb.PTTL(ctx, keyTimeFrame).Result()
		if err != nil || remainingTime <= 0 {
			if err != nil {
				log.Err(err).Msg("Can't get the TTL for the key, sending config time frame")
			}
			remainingTime = timeFrame
		}
		return false, remainingTime
	}

	return true, 0
}
