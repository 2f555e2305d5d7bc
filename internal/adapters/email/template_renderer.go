package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"

	"eventhub/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer renders emails from the embedded templates folder.
// HTML bodies go through html/template for escaping; subjects and text
// bodies use text/template. All templates are parsed once up front so a
// broken template fails at startup rather than on first send.
type templateRenderer struct {
	html *template.Template
	text *texttemplate.Template
}

// NewTemplateRenderer returns an EmailTemplateRenderer backed by the
// embedded template files. Panics if any embedded template is invalid.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{
		html: template.Must(template.ParseFS(templateFS, "templates/*.html")),
		text: texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/*.txt")),
	}
}

// Render executes the named template set (e.g. "event_invitation") with
// data and returns the subject line plus html and text bodies.
func (r *templateRenderer) Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error) {
	subject, err = r.execText(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render subject: %w", err)
	}
	htmlBody, err = r.execHTML(templateName+".html", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render html: %w", err)
	}
	textBody, err = r.execText(templateName+".txt", data)
	if err != nil {
		return "", "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

func (r *templateRenderer) execHTML(name string, data interface{}) (string, error) {
	t := r.html.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *templateRenderer) execText(name string, data interface{}) (string, error) {
	t := r.text.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("template %q not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
