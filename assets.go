package main

import (
	"embed"
	"html/template"
	"io/fs"

	"github.com/Zachkp/folio/internal/contact"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

//go:embed data/projects.json
var dataFS embed.FS

// templateFuncs exposes the formatting helpers to the page templates.
var templateFuncs = template.FuncMap{
	"phone":      contact.FormatPhoneNumber,
	"validEmail": contact.ValidateEmail,
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// Only possible if the embed directive above changes.
		panic(err)
	}
	return sub
}
