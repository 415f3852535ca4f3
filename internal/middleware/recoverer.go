package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/resutils"
	"github.com/rs/zerolog"
)

// Recoverer recovers from panics, logs the panic with a backtrace and answers
// with a 500 carrying ErrUnexpectedErrorOccurred.
func Recoverer(next http.Handler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					// we don't recover http.ErrAbortHandler so the response
					// to the client is aborted, this should not be logged
					panic(rvr)
				}

				log := zerolog.Ctx(r.Context()).Error().CallerSkipFrame(1)
				if err, ok := rvr.(error); ok {
					log.Err(err)
				}

				log.Msg("Panic")
				debug.PrintStack()

				if r.Header.Get("Connection") != "Upgrade" {
					resutils.WriteError(r.Context(), w, http.StatusInternalServerError, apperr.ErrUnexpectedErrorOccurred)
				}
			}
		}()
		next.ServeHTTP(w, r)
	})
}
