package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
	"github.com/rs/zerolog"
)

func init() {
	l10n.InitL10n([]string{"en", "es"}, zerolog.Nop())
}

type fakeAppender struct {
	mu      sync.Mutex
	err     error
	records []interest.Record
}

func (f *fakeAppender) AppendRecord(ctx context.Context, record interest.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, record)
	return f.err
}

func (f *fakeAppender) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func testConfig() Config {
	return Config{
		Sink:          SinkLog,
		Limit:         3,
		Interval:      30 * time.Second,
		Capacity:      1000,
		LimitScope:    interest.LimitScopeGlobal,
		AppendTimeout: time.Second,
		MaxInFlight:   10,
	}
}

func newTestServer(t *testing.T, conf Config, appender interest.Appender) http.Handler {
	t.Helper()
	s := &Server{conf: conf, log: zerolog.Nop()}
	if err := s.wire(context.Background(), appender); err != nil {
		t.Fatalf("can not wire the server: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s.RegisterRoutes()
}

func postInterest(h http.Handler, body string, headers ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, recordInterestPath, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Accept", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("body is not json: %v, %q", err, rec.Body.String())
	}
	return body
}

const aliceJson = `{"name":"Alice","email":"alice@example.com"}`

func TestRecordInterestSuccess(t *testing.T) {
	appender := &fakeAppender{}
	h := newTestServer(t, testConfig(), appender)

	rec := postInterest(h, aliceJson)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != true || body["message"] != "Thanks! We will keep you posted" {
		t.Fatalf("unexpected body %v", body)
	}
	if _, ok := body["reason"]; ok {
		t.Fatalf("a success carries no reason: %v", body)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "3" || rec.Header().Get("X-RateLimit-Remaining") != "2" {
		t.Fatalf("unexpected rate limit headers %v", rec.Header())
	}
	if appender.calls() != 1 || appender.records[0] != (interest.Record{Name: "Alice", Email: "alice@example.com"}) {
		t.Fatalf("unexpected appended records %v", appender.records)
	}
}

func TestRecordInterestRateLimited(t *testing.T) {
	appender := &fakeAppender{}
	h := newTestServer(t, testConfig(), appender)

	for i := range 3 {
		if rec := postInterest(h, aliceJson); rec.Code != http.StatusOK {
			t.Fatalf("call %d should pass, got %d", i+1, rec.Code)
		}
	}

	rec := postInterest(h, aliceJson)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("4th call should be limited, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["reason"] != "rate limited" || body["message"] != "Too many requests, try again later" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "0" || rec.Header().Get("Retry-After") == "" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}
	if appender.calls() != 3 {
		t.Fatalf("a limited call must not reach the sink, got %d appends", appender.calls())
	}
}

func TestRecordInterestSubmitError(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{err: errors.New("sheets down")})

	rec := postInterest(h, aliceJson, "Accept-Language", "es")

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false || body["reason"] != "submit error" || body["message"] != "Ocurrió un error, vuelve a intentarlo" {
		t.Fatalf("unexpected body %v", body)
	}
	if rec.Header().Get("X-RateLimit-Remaining") != "2" {
		t.Fatalf("a failed append still counts, headers %v", rec.Header())
	}
}

func TestRecordInterestValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code string
	}{
		{"empty name", `{"name":"  ","email":"alice@example.com"}`, "interest_2"},
		{"long name", `{"name":"` + strings.Repeat("a", 51) + `","email":"alice@example.com"}`, "interest_3"},
		{"bad email", `{"name":"Alice","email":"alice"}`, "interest_1"},
		{"display name email", `{"name":"Alice","email":"Alice <alice@example.com>"}`, "interest_1"},
		{"not json", `name=Alice`, "res_3"},
		{"two values", aliceJson + aliceJson, "res_3"},
	}

	appender := &fakeAppender{}
	h := newTestServer(t, testConfig(), appender)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postInterest(h, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
			}
			if got := decodeBody(t, rec)["code"]; got != tt.code {
				t.Fatalf("unexpected error code %v", got)
			}
		})
	}

	if appender.calls() != 0 {
		t.Fatalf("invalid input must not reach the sink")
	}
	// validation errors do not use the allowance
	if rec := postInterest(h, aliceJson); rec.Header().Get("X-RateLimit-Remaining") != "2" {
		t.Fatalf("unexpected remaining %q", rec.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRecordInterestNameAtMaxLen(t *testing.T) {
	appender := &fakeAppender{}
	h := newTestServer(t, testConfig(), appender)

	name := strings.Repeat("ñ", interest.MaxNameLen)
	rec := postInterest(h, `{"name":"`+name+`","email":"alice@example.com"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("a %d rune name is valid, got %d", interest.MaxNameLen, rec.Code)
	}
}

func TestRecordInterestRejectsOtherContentTypes(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})

	r := httptest.NewRequest(http.MethodPost, recordInterestPath, strings.NewReader("name=Alice&email=alice@example.com"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestRecordInterestOnlyPost(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, recordInterestPath, nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestClientScopeLimitsPerIP(t *testing.T) {
	conf := testConfig()
	conf.Limit = 1
	conf.LimitScope = interest.LimitScopeClient
	h := newTestServer(t, conf, &fakeAppender{})

	send := func(ip string) int {
		r := httptest.NewRequest(http.MethodPost, recordInterestPath, strings.NewReader(aliceJson))
		r.Header.Set("Content-Type", "application/json")
		r.RemoteAddr = ip + ":5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec.Code
	}

	if code := send("198.51.100.1"); code != http.StatusOK {
		t.Fatalf("first ip should pass, got %d", code)
	}
	if code := send("198.51.100.2"); code != http.StatusOK {
		t.Fatalf("second ip has its own allowance, got %d", code)
	}
	if code := send("198.51.100.1"); code != http.StatusTooManyRequests {
		t.Fatalf("first ip is out of allowance, got %d", code)
	}
}

func TestAPIGuard(t *testing.T) {
	conf := testConfig()
	conf.APIRatePerMinute = 2
	h := newTestServer(t, conf, &fakeAppender{})

	postInterest(h, aliceJson)
	postInterest(h, aliceJson)
	rec := postInterest(h, aliceJson)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("the guard should reject the 3rd call, got %d", rec.Code)
	}
	if got := decodeBody(t, rec)["code"]; got != "res_2" {
		t.Fatalf("the guard answers with the generic error, got %v", got)
	}
}

func TestLandingPage(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Accept-Language", "es")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	page := rec.Body.String()
	for _, want := range []string{
		`<html lang="es"`,
		"Make money while you livestream",
		`content="Livestreaming Web3"`,
		`action="/api/v1/collect/record-interest"`,
		"#4bb9c4",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("the page is missing %q", want)
		}
	}
}

func TestStaticAndUnknownPaths(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "color-scheme") {
		t.Fatalf("unexpected static response %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status for an unknown path %d", rec.Code)
	}
}

func TestMetricsAndPing(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})
	postInterest(h, aliceJson)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), `zeau_interest_submissions_total{outcome="success"} 1`) {
		t.Fatalf("metrics are missing the submission:\n%s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if rec.Body.String() != "pong" {
		t.Fatalf("unexpected ping response %q", rec.Body.String())
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, testConfig(), &fakeAppender{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/dev-tools/health", nil))

	if rec.Code != http.StatusOK || decodeBody(t, rec)["sink"] != "log" {
		t.Fatalf("unexpected health response %d %s", rec.Code, rec.Body.String())
	}
}

func TestUnsupportedScopeFailsWiring(t *testing.T) {
	conf := testConfig()
	conf.LimitScope = "planet"
	s := &Server{conf: conf, log: zerolog.Nop()}
	if err := s.wire(context.Background(), &fakeAppender{}); err == nil {
		t.Fatalf("expecting an error for an unknown scope")
	}
}
