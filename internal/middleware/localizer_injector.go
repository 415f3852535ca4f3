package middleware

import (
	"net/http"

	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
	"github.com/rs/zerolog"
)

// LocalizerInjector picks the language from the lang query parameter or the
// Accept-Language header. Unknown or missing values fall back to the default language.
func LocalizerInjector(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		lang := r.Header.Get("Accept-Language")
		if langQP := r.URL.Query().Get("lang"); langQP != "" {
			lang = langQP
		}

		localizer := l10n.GetLocalizer(lang)
		ctx = l10n.ContextWithLocalizer(ctx, localizer)
		ctx = zerolog.Ctx(ctx).With().Str("lang", localizer.Lang()).Logger().WithContext(ctx)

		next.ServeHTTP(w, r.WithContext(ctx))
	}
}
