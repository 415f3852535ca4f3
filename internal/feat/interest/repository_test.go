package interest

import (
	"context"
	"errors"
	"net/netip"
	"sync"
	"testing"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/metrics"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokencache"
	"github.com/Nidal-Bakir/zeau-landing/internal/tokenlimiter"
	"github.com/Nidal-Bakir/zeau-landing/internal/tracker"
)

type fakeAppender struct {
	mu      sync.Mutex
	records []Record
	appendF func(ctx context.Context, record Record) error
}

func (f *fakeAppender) AppendRecord(ctx context.Context, record Record) error {
	f.mu.Lock()
	f.records = append(f.records, record)
	f.mu.Unlock()
	if f.appendF != nil {
		return f.appendF(ctx, record)
	}
	return nil
}

func (f *fakeAppender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func newTestRepository(appender Appender, opts Options) Repository {
	limiter := tokenlimiter.New(tokencache.New(tokencache.Config{Capacity: DefaultCapacity, Interval: time.Minute}))
	return NewRepository(limiter, appender, opts, metrics.NewRecorder())
}

var alice = Record{Name: "Alice", Email: "alice@example.com"}

func assertOutcome(t *testing.T, got Result, want Outcome) {
	t.Helper()
	if got.Outcome != want {
		t.Fatalf("expecting outcome %q, got %q", want, got.Outcome)
	}
}

func TestRecordInterestSuccess(t *testing.T) {
	appender := new(fakeAppender)
	repo := newTestRepository(appender, Options{Limit: 3})

	res := repo.RecordInterest(context.Background(), alice)

	assertOutcome(t, res, OutcomeSuccess)
	if res.Response() != (Response{Success: true}) {
		t.Fatalf("unexpected response %+v", res.Response())
	}
	if appender.calls() != 1 || appender.records[0] != alice {
		t.Fatalf("expecting alice to be appended once, got %+v", appender.records)
	}
	if res.Usage.Limit != 3 || res.Usage.Remaining != 2 {
		t.Fatalf("unexpected usage %+v", res.Usage)
	}
}

func TestRecordInterestSubmitError(t *testing.T) {
	appender := &fakeAppender{appendF: func(context.Context, Record) error {
		return errors.New("sheets: 401 unauthorized")
	}}
	repo := newTestRepository(appender, Options{Limit: 3})

	res := repo.RecordInterest(context.Background(), alice)

	assertOutcome(t, res, OutcomeSubmitError)
	if res.Response() != (Response{Success: false, Reason: "submit error"}) {
		t.Fatalf("unexpected response %+v", res.Response())
	}
}

func TestRecordInterestAppenderPanicIsSubmitError(t *testing.T) {
	appender := &fakeAppender{appendF: func(context.Context, Record) error {
		panic("boom")
	}}
	repo := newTestRepository(appender, Options{Limit: 3})

	assertOutcome(t, repo.RecordInterest(context.Background(), alice), OutcomeSubmitError)
}

func TestRecordInterestAppendIsBoundedByTimeout(t *testing.T) {
	appender := &fakeAppender{appendF: func(ctx context.Context, _ Record) error {
		<-ctx.Done()
		return ctx.Err()
	}}
	repo := newTestRepository(appender, Options{Limit: 3, AppendTimeout: 20 * time.Millisecond})

	start := time.Now()
	res := repo.RecordInterest(context.Background(), alice)

	assertOutcome(t, res, OutcomeSubmitError)
	if time.Since(start) > time.Second {
		t.Fatalf("the append was not cut by the timeout")
	}
}

func TestFourthRapidCallIsRateLimitedWithoutAppending(t *testing.T) {
	appender := new(fakeAppender)
	repo := newTestRepository(appender, Options{Limit: 3})

	for range 3 {
		assertOutcome(t, repo.RecordInterest(context.Background(), alice), OutcomeSuccess)
	}

	res := repo.RecordInterest(context.Background(), alice)

	assertOutcome(t, res, OutcomeRateLimited)
	if res.Response() != (Response{Success: false, Reason: "rate limited"}) {
		t.Fatalf("unexpected response %+v", res.Response())
	}
	if appender.calls() != 3 {
		t.Fatalf("the appender must not be called once rate limited, calls=%d", appender.calls())
	}
	if res.Usage.Remaining != 0 {
		t.Fatalf("expecting 0 remaining, got %d", res.Usage.Remaining)
	}
}

func TestFailedAppendsStillCountAgainstTheLimit(t *testing.T) {
	appender := &fakeAppender{appendF: func(context.Context, Record) error {
		return errors.New("network down")
	}}
	repo := newTestRepository(appender, Options{Limit: 2})

	repo.RecordInterest(context.Background(), alice)
	repo.RecordInterest(context.Background(), alice)

	assertOutcome(t, repo.RecordInterest(context.Background(), alice), OutcomeRateLimited)
}

func withIP(ip string) context.Context {
	return tracker.ContextWithReqIP(context.Background(), netip.MustParseAddr(ip))
}

func TestGlobalTokenIsSharedAcrossClients(t *testing.T) {
	repo := newTestRepository(new(fakeAppender), Options{Limit: 1, TokenFn: GlobalToken})

	assertOutcome(t, repo.RecordInterest(withIP("10.0.0.1"), alice), OutcomeSuccess)
	// a different client is throttled by the first one's usage
	assertOutcome(t, repo.RecordInterest(withIP("10.0.0.2"), alice), OutcomeRateLimited)
}

func TestClientTokenIsPerClient(t *testing.T) {
	repo := newTestRepository(new(fakeAppender), Options{Limit: 1, TokenFn: ClientToken})

	assertOutcome(t, repo.RecordInterest(withIP("10.0.0.1"), alice), OutcomeSuccess)
	assertOutcome(t, repo.RecordInterest(withIP("10.0.0.2"), alice), OutcomeSuccess)
	assertOutcome(t, repo.RecordInterest(withIP("10.0.0.1"), alice), OutcomeRateLimited)
}

func TestLimitScopeTokenFn(t *testing.T) {
	for _, scope := range []LimitScope{"", LimitScopeGlobal, LimitScopeClient} {
		if _, err := scope.TokenFn(); err != nil {
			t.Fatalf("scope %q: unexpected error %v", scope, err)
		}
	}
	if _, err := LimitScope("user").TokenFn(); err == nil {
		t.Fatalf("expecting an error for an unknown scope")
	}
}

func TestClientTokenWithoutIPFallsBackToGlobal(t *testing.T) {
	if got := ClientToken(context.Background()); got != GlobalTokenValue {
		t.Fatalf("expecting the global token, got %q", got)
	}
}
