package core

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/validator.html
var templatesFS embed.FS

// pageTemplate renders the validator page a reporter's browser loads
// when it joins, grounded the same way go-mizu-mizu's blueprints embed
// their views: a single html/template parsed from an embedded file.
type pageTemplate struct {
	t *template.Template
}

func newPageTemplate() *pageTemplate {
	t := template.Must(template.ParseFS(templatesFS, "templates/validator.html"))
	return &pageTemplate{t: t}
}

type validatorPageData struct {
	Key        string
	AuthTime   string
	Challenges []Assignment
}

// Render writes the validator page for key's join response, listing
// each assignment the reporter's browser should probe.
func (p *pageTemplate) Render(w io.Writer, key string, issuedAt int64, assignments []Assignment) error {
	data := validatorPageData{
		Key:        key,
		AuthTime:   formatUnix(issuedAt),
		Challenges: assignments,
	}
	return p.t.Execute(w, data)
}
