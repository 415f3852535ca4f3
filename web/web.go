package web

import (
	"embed"
	"html/template"
	"io/fs"
)

const PrimaryColor = "#4bb9c4"

//go:embed templates/*.html
var templateFiles embed.FS

//go:embed static
var staticFiles embed.FS

// Static holds the css and js served under /static/.
var Static, _ = fs.Sub(staticFiles, "static")

// LandingPage is the parsed index template.
var LandingPage = template.Must(template.ParseFS(templateFiles, "templates/index.html"))

type LandingPageData struct {
	Lang         string
	Title        string
	Description  string
	PrimaryColor string
	// endpoint the interest form posts to
	RecordInterestURL string
	ProcessingMsg     string
	FailedMsg         string
}
