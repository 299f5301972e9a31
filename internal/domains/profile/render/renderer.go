// Package render turns an athlete record into a static HTML page.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"oneshot-backend/internal/domains/profile/model"

	"github.com/rs/zerolog/log"
)

// TimestampLayout is the human-readable generation date, e.g. "June 1, 2025".
const TimestampLayout = "January 2, 2006"

// Data is the template context: the athlete record plus computed fields.
// HighlightVideoURL and HudlVideoURL shadow the raw record values.
type Data struct {
	*model.AthleteProfile

	HighlightVideoURL string // embeddable form
	HudlVideoURL      string // untouched, link only
	Slug              string
	ProfileURL        string
	QRCode            template.URL // data:image/png;base64,...
	Timestamp         string
}

// Result is the outcome of a render. Degraded results carry the fallback
// document and the reason the rich template could not be used.
type Result struct {
	HTML     []byte
	Degraded bool
	Reason   string
}

// Template is one template source together with its compile outcome.
type Template struct {
	Name       string
	compiled   *template.Template
	compileErr error
}

// Err returns the compile error, if any.
func (t *Template) Err() error {
	return t.compileErr
}

// Renderer owns a locally configured template environment.
type Renderer struct {
	funcs    template.FuncMap
	fallback *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		funcs:    Funcs(),
		fallback: template.Must(template.New("fallback").Parse(fallbackSource)),
	}
}

// Compile parses source with the helpers installed. A compile error is
// kept on the Template; rendering it yields the fallback document.
func (r *Renderer) Compile(name, source string) *Template {
	tmpl, err := template.New(name).Funcs(r.funcs).Option("missingkey=zero").Parse(source)
	if err != nil {
		return &Template{Name: name, compileErr: err}
	}
	return &Template{Name: name, compiled: tmpl}
}

// Render executes t against data. It never fails: compile and execution
// errors produce a degraded Result with the minimal fallback page.
func (r *Renderer) Render(t *Template, data *Data) Result {
	if t.compileErr != nil {
		return r.degrade(data, fmt.Errorf("template compile failed: %w", t.compileErr))
	}

	var buf bytes.Buffer
	if err := t.compiled.Execute(&buf, data); err != nil {
		return r.degrade(data, fmt.Errorf("template render failed: %w", err))
	}
	return Result{HTML: buf.Bytes()}
}

// RenderSource compiles and renders in one step.
func (r *Renderer) RenderSource(source string, data *Data) Result {
	return r.Render(r.Compile("profile", source), data)
}

func (r *Renderer) degrade(data *Data, reason error) Result {
	name := "Athlete Profile"
	if data != nil && data.AthleteProfile != nil && data.FullName != "" {
		name = data.FullName
	}

	log.Warn().
		Err(reason).
		Str("athlete", name).
		Msg("Profile template failed, using fallback page")

	var buf bytes.Buffer
	// the fallback only interpolates an escaped string and cannot fail
	_ = r.fallback.Execute(&buf, name)
	return Result{HTML: buf.Bytes(), Degraded: true, Reason: reason.Error()}
}

const fallbackSource = `<!DOCTYPE html>
<html>
<head><title>{{.}}</title></head>
<body>
  <h1>{{.}}</h1>
  <p>Profile generation encountered an error but was created successfully.</p>
  <p>Please contact support if this issue persists.</p>
</body>
</html>`
