package l10n

import (
	"embed"
	"encoding/json"
	"fmt"

	"github.com/Nidal-Bakir/zeau-landing/internal/utils"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFiles embed.FS

var (
	bundle    *i18n.Bundle
	matcher   language.Matcher
	locales   = map[string]*Localizer{}
	languages = []string{}
)

type Localizer struct {
	lang   string
	l      *i18n.Localizer
	logger zerolog.Logger
}

// InitL10n loads the embedded message files for langs. The first lang is the fallback.
func InitL10n(langs []string, logger zerolog.Logger) {
	utils.Assert(len(langs) != 0, "The langs slice can not be empty")
	languages = langs

	bundle = i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	tags := make([]language.Tag, 0, len(langs))
	logEvent := logger.Debug()
	for _, lang := range languages {
		filePath := fmt.Sprintf("locales/%s.json", lang)
		_, err := bundle.LoadMessageFileFS(localeFiles, filePath)
		utils.Assert(err == nil, err)
		locales[lang] = &Localizer{lang: lang, l: i18n.NewLocalizer(bundle, lang), logger: logger}
		tags = append(tags, language.MustParse(lang))

		logEvent.Str(lang, filePath)
	}
	matcher = language.NewMatcher(tags)
	logEvent.Msg("Localiztion files loaded")
}

// GetLocalizer accepts a plain tag ("es") or a full Accept-Language value
// ("es-MX,es;q=0.9,en;q=0.8") and falls back to the first loaded language.
func GetLocalizer(lang string) *Localizer {
	if l, ok := locales[lang]; ok {
		return l
	}

	fallback := locales[languages[0]]
	if lang == "" {
		return fallback
	}

	tags, _, err := language.ParseAcceptLanguage(lang)
	if err != nil || len(tags) == 0 {
		fallback.logger.Warn().Str("lang", lang).Msgf("Can not parse the language, will default to %s", languages[0])
		return fallback
	}

	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return locales[languages[index]]
}

func (l *Localizer) Lang() string {
	return l.lang
}

func (l *Localizer) GetWithId(id string) string {
	return l.localizeMsg(id, nil)
}

func (l *Localizer) GetWithData(id string, data map[string]any) string {
	return l.localizeMsg(id, data)
}

func (l *Localizer) localizeMsg(id string, data map[string]any) string {
	cfg := &i18n.LocalizeConfig{
		DefaultMessage: defaultMessage(id),
		TemplateData:   data,
	}

	str, err := l.l.Localize(cfg)
	if err != nil {
		errLog := l.logger.Error().Err(err).Str("id", id)
		if data != nil {
			errLog.Fields(data)
		}
		errLog.Msg("Error getting localized message")

		str = id
	}

	return str
}

func defaultMessage(id string) *i18n.Message {
	return &i18n.Message{
		ID:    id,
		Other: id,
	}
}
