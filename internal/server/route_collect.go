package server

import (
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/feat/interest"
	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
	"github.com/Nidal-Bakir/zeau-landing/internal/middleware"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/emailvalidator"
)

func collectRouter(s *Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc(
		"POST /record-interest",
		middleware.MiddlewareChain(
			s.recordInterest,
			middleware.RequestSize(maxRecordInterestReq),
			middleware.ACT_app_json,
			// the append is bounded by AppendTimeout, this only catches a stuck handler
			middleware.Timeout(s.conf.AppendTimeout+5*time.Second),
		),
	)

	return mux
}

type recordInterestParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type recordInterestRes struct {
	interest.Response
	Message string `json:"message"`
}

func (s *Server) recordInterest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var params recordInterestParams
	if err := decodeJsonBody(r, &params); err != nil {
		writeError(ctx, w, http.StatusBadRequest, err)
		return
	}

	record, errs := validateRecordInterestParams(params)
	if len(errs) != 0 {
		writeError(ctx, w, http.StatusBadRequest, errs...)
		return
	}

	result := s.interestRepo.RecordInterest(ctx, record)
	result.Usage.WriteHeaders(w.Header())

	code, msgTrId := recordInterestStatus(result.Outcome)
	localizer := l10n.MustLocalizerFromContext(ctx)

	writeJson(ctx, w, code, recordInterestRes{
		Response: result.Response(),
		Message:  localizer.GetWithId(msgTrId),
	})
}

func recordInterestStatus(outcome interest.Outcome) (int, string) {
	switch outcome {
	case interest.OutcomeSuccess:
		return http.StatusOK, l10n.InterestRecordedTrId
	case interest.OutcomeRateLimited:
		return http.StatusTooManyRequests, l10n.TooManyRequestsTrId
	default:
		return http.StatusBadGateway, l10n.SubmitFailedTrId
	}
}

func validateRecordInterestParams(params recordInterestParams) (interest.Record, []error) {
	var errs []error

	name := strings.TrimSpace(params.Name)
	switch {
	case name == "":
		errs = append(errs, apperr.ErrInvalidName)
	case utf8.RuneCountInString(name) > interest.MaxNameLen:
		errs = append(errs, apperr.ErrTooLongName)
	}

	email := strings.TrimSpace(params.Email)
	if err := emailvalidator.IsValidEmailErr(email); err != nil {
		errs = append(errs, err)
	}

	return interest.Record{Name: name, Email: email}, errs
}
