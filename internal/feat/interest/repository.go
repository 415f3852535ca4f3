package interest

import (
	"context"
	"fmt"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/metrics"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokenlimiter"
	"github.com/rs/zerolog"
)

const (
	DefaultLimit         = 3
	DefaultInterval      = 30 * time.Second
	DefaultCapacity      = 1000
	DefaultAppendTimeout = 10 * time.Second
)

type Repository interface {
	// RecordInterest checks the rate limit, then appends the record once.
	// It always returns one of the three outcomes and never an error.
	RecordInterest(ctx context.Context, record Record) Result
}

type Options struct {
	// allowed submissions per token and interval
	Limit         int
	TokenFn       TokenFn
	AppendTimeout time.Duration
}

func NewRepository(limiter *tokenlimiter.Limiter, appender Appender, opts Options, recorder *metrics.Recorder) Repository {
	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	if opts.TokenFn == nil {
		opts.TokenFn = GlobalToken
	}
	if opts.AppendTimeout <= 0 {
		opts.AppendTimeout = DefaultAppendTimeout
	}
	return &repositoryImpl{
		limiter:  limiter,
		appender: appender,
		opts:     opts,
		metrics:  recorder,
	}
}

// ---------------------------------------------------------------------------------

type repositoryImpl struct {
	limiter  *tokenlimiter.Limiter
	appender Appender
	opts     Options
	metrics  *metrics.Recorder
}

func (repo repositoryImpl) RecordInterest(ctx context.Context, record Record) Result {
	zlog := zerolog.Ctx(ctx)

	usage, err := repo.limiter.Check(repo.opts.TokenFn(ctx), repo.opts.Limit)
	repo.metrics.RateLimitCheck(err == nil)
	if err != nil {
		zlog.Info().Int("limit", usage.Limit).Msg("record interest rate limited")
		return repo.done(Result{Outcome: OutcomeRateLimited, Usage: usage})
	}

	err = repo.append(ctx, record)
	if err != nil {
		zlog.Err(err).Msg("can not append the interest record")
		return repo.done(Result{Outcome: OutcomeSubmitError, Usage: usage})
	}

	return repo.done(Result{Outcome: OutcomeSuccess, Usage: usage})
}

func (repo repositoryImpl) append(ctx context.Context, record Record) (err error) {
	ctx, cancel := context.WithTimeout(ctx, repo.opts.AppendTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if rvr := recover(); rvr != nil {
			err = fmt.Errorf("interest: appender panicked: %v", rvr)
		}
		repo.metrics.AppendDuration(time.Since(start))
	}()

	return repo.appender.AppendRecord(ctx, record)
}

func (repo repositoryImpl) done(res Result) Result {
	repo.metrics.Submission(res.Outcome.String())
	return res
}
