package middleware

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/Nidal-Bakir/zeau-landing/internal/tracker"
	"github.com/rs/zerolog"
)

// Timeout cancels the request context after d. When the deadline was hit and
// the handler wrote nothing, the client gets a 504 Gateway Timeout.
//
// Handlers have to watch ctx.Done() for the signal to mean anything.
func Timeout(d time.Duration) func(next http.Handler) http.HandlerFunc {
	return func(next http.Handler) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ctxWithCancel, cancelFunc := context.WithTimeout(r.Context(), d)
			log := *zerolog.Ctx(ctxWithCancel)
			tw := &timeoutWriter{ResponseWriter: w}

			defer func() {
				cancelFunc()
				if errors.Is(ctxWithCancel.Err(), context.DeadlineExceeded) && tw.writeHeaderIfUnwritten(http.StatusGatewayTimeout) {
					reqId, ok := tracker.ReqUUIDFromContext(ctxWithCancel)
					logEvent := log.Warn().Err(context.DeadlineExceeded).Int("status_code", http.StatusGatewayTimeout)
					if ok {
						logEvent.Str(tracker.ReqIdStrKey, reqId.String())
					}
					logEvent.Msgf("Warning a request timed out. Sending Gateway-Timeout %d status code", http.StatusGatewayTimeout)
				}
			}()

			next.ServeHTTP(tw, r.WithContext(ctxWithCancel))
		}
	}
}

type timeoutWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	wroteHeader bool
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.writeHeaderIfUnwritten(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.writeHeaderIfUnwritten(http.StatusOK)
	return tw.ResponseWriter.Write(b)
}

func (tw *timeoutWriter) Unwrap() http.ResponseWriter {
	return tw.ResponseWriter
}

func (tw *timeoutWriter) writeHeaderIfUnwritten(code int) bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.wroteHeader {
		return false
	}
	tw.wroteHeader = true
	tw.ResponseWriter.WriteHeader(code)
	return true
}
