package apperr

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
)

func IsAppErr(err error) bool {
	return UnwrapAppErr(err) != nil
}

func UnwrapAppErr(err error) *AppErr {
	var appErr *AppErr
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

type AppErr struct {
	err           error
	translationID string
	translatedMsg string
	errorCode     string
}

func (err *AppErr) Error() string {
	if err.translatedMsg != "" {
		return err.translatedMsg
	}
	return err.err.Error()
}

func (err *AppErr) Unwrap() error { return err.err }

func (err *AppErr) ErrorCode() string { return err.errorCode }

// Is lets a translated copy still match the sentinel it was made from.
func (err *AppErr) Is(target error) bool {
	t, ok := target.(*AppErr)
	if !ok {
		return false
	}
	return err.err == t.err && err.errorCode == t.errorCode
}

// Translated returns a copy carrying the message for the localizer found in ctx.
// The sentinels below are shared between requests, so they are never mutated.
func (err *AppErr) Translated(ctx context.Context) *AppErr {
	cp := *err
	local, ok := l10n.LocalizerFromContext(ctx)
	if ok && err.translationID != "" {
		cp.translatedMsg = local.GetWithId(err.translationID)
	}
	return &cp
}

func (e *AppErr) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, 2)

	m["error"] = e.Error()

	if len(e.ErrorCode()) != 0 {
		m["code"] = e.ErrorCode()
	}

	return json.Marshal(m)
}

func NewAppErr(err error) error {
	return &AppErr{
		err: err,
	}
}

func NewAppErrWithErrorCode(err error, errorCode string) error {
	return &AppErr{
		err:       err,
		errorCode: errorCode,
	}
}

func NewAppErrWithTr(err error, translationID string, errorCode string) error {
	return &AppErr{
		err:           err,
		translationID: translationID,
		errorCode:     errorCode,
	}
}

// -------------------------------------------

var (
	ErrUnexpectedErrorOccurred = NewAppErrWithTr(errors.New("unexpected error occurred"), l10n.UnexpectedErrorOccurredTrId, "res_1")
	ErrTooManyRequests         = NewAppErrWithTr(errors.New("too many requests"), l10n.TooManyRequestsTrId, "res_2")
	ErrInvalidBody             = NewAppErrWithTr(errors.New("invalid request body"), l10n.InvalidBodyTrId, "res_3")

	// interest
	ErrInvalidEmail = NewAppErrWithTr(errors.New("invalid email"), l10n.InvalidEmailTrId, "interest_1")
	ErrInvalidName  = NewAppErrWithTr(errors.New("invalid name"), l10n.InvalidNameTrId, "interest_2")
	ErrTooLongName  = NewAppErrWithTr(errors.New("too long name"), l10n.TooLongNameTrId, "interest_3")
	ErrSubmitFailed = NewAppErrWithTr(errors.New("submit error"), l10n.SubmitFailedTrId, "interest_4")
)
