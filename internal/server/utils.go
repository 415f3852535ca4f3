package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/Nidal-Bakir/zeau-landing/internal/apperr"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/resutils"
)

func writeError(ctx context.Context, w http.ResponseWriter, code int, errs ...error) {
	resutils.WriteError(ctx, w, code, errs...)
}

func writeJson(ctx context.Context, w http.ResponseWriter, code int, payload any) {
	resutils.WriteJson(ctx, w, code, payload)
}

// decodeJsonBody reads exactly one json value into dst.
func decodeJsonBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", apperr.ErrInvalidBody, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: trailing data after the json body", apperr.ErrInvalidBody)
	}
	return nil
}
