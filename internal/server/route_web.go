package server

import (
	"bytes"
	"net/http"

	"github.com/Nidal-Bakir/zeau-landing/internal/l10n"
	"github.com/Nidal-Bakir/zeau-landing/internal/utils/mimes"
	"github.com/Nidal-Bakir/zeau-landing/web"
	"github.com/rs/zerolog"
)

func webRouter(_ *Server) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", landingPage)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(web.Static)))

	return mux
}

func landingPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	localizer := l10n.MustLocalizerFromContext(ctx)

	data := web.LandingPageData{
		Lang:              localizer.Lang(),
		Title:             localizer.GetWithId(l10n.PageTitleTrId),
		Description:       localizer.GetWithId(l10n.PageDescriptionTrId),
		PrimaryColor:      web.PrimaryColor,
		RecordInterestURL: recordInterestPath,
		ProcessingMsg:     localizer.GetWithId(l10n.InterestProcessingTrId),
		FailedMsg:         localizer.GetWithId(l10n.SubmitFailedTrId),
	}

	var buf bytes.Buffer
	if err := web.LandingPage.Execute(&buf, data); err != nil {
		zerolog.Ctx(ctx).Err(err).Msg("can not render the landing page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", mimes.Text_html+"; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
