package resutils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/Nidal-Bakir/zeau-landing/internal/appenv"
	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/tracker"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/mimes"
	"github.com/rs/zerolog"
)

type errorRes struct {
	Error  error   `json:"error"`
	Errors []error `json:"errors,omitempty"`
}

func (e errorRes) MarshalJSON() ([]byte, error) {
	m := make(map[string]any)
	m["error"] = e.Error.Error()
	if appErr := apperr.UnwrapAppErr(e.Error); appErr != nil && appErr.ErrorCode() != "" {
		m["code"] = appErr.ErrorCode()
	}

	errsLen := len(e.Errors)
	if errsLen != 0 {
		errors := make([]string, errsLen)
		for i, e := range e.Errors {
			errors[i] = e.Error()
		}
		m["errors"] = errors
	}

	return json.Marshal(m)
}

// WriteError writes {"error": ..., "code": ..., "errors": [...]}.
// App errors are translated with the localizer in ctx, anything else is
// replaced by ErrUnexpectedErrorOccurred so internals never reach the client.
func WriteError(ctx context.Context, w http.ResponseWriter, code int, errs ...error) {
	zlog := zerolog.Ctx(ctx)

	if len(errs) == 0 {
		if appenv.IsStagOrLocal() {
			panic("WriteError: empty errs array")
		}
		zlog.Warn().Msg("WriteError: empty errs array")
		errs = []error{fmt.Errorf("empty errs array")}
	}

	out := make([]error, len(errs))
	for i, e := range errs {
		if appError := apperr.UnwrapAppErr(e); appError != nil {
			out[i] = appError.Translated(ctx)
			continue
		}
		zlog.Error().Err(e).Int("code", code).Msg("Non app error in the response, hiding it")
		out[i] = apperr.UnwrapAppErr(apperr.ErrUnexpectedErrorOccurred).Translated(ctx)
	}

	writeJson(ctx, w, code, errorRes{Error: out[0], Errors: out[1:]}, true)
}

func WriteJson(ctx context.Context, w http.ResponseWriter, code int, payload any) {
	writeJson(ctx, w, code, payload, appenv.IsStagOrLocal())
}

func writeJson(ctx context.Context, w http.ResponseWriter, code int, payload any, shouldLog bool) {
	zlog := *zerolog.Ctx(ctx)

	bytes, err := json.Marshal(payload)
	if err != nil {
		zlog.Error().Err(err).Any("payload", payload).Int("code", code).Msg("can not marshal payload in WriteJson")
		if _, isErrRes := payload.(errorRes); isErrRes {
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		WriteError(ctx, w, http.StatusInternalServerError, errors.Join(apperr.ErrUnexpectedErrorOccurred, err))
		return
	}

	w.Header().Set("Content-Type", mimes.App_json)
	w.WriteHeader(code)
	w.Write(bytes)

	if shouldLog {
		logRes(ctx, code, payload, zlog)
	}
}

func logRes(ctx context.Context, code int, payload any, zlog zerolog.Logger) {
	logEvent := zlog.Info().Any("payload", payload).Int("code", code)
	reqId, ok := tracker.ReqUUIDFromContext(ctx)
	if ok {
		logEvent.Str(tracker.ReqIdStrKey, reqId.String())
	}
	logEvent.CallerSkipFrame(99999999) // so it dose not print the file:line_num in the log. we do not need those
	logEvent.Msg("Res")
}
