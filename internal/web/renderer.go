// Package web renders the dashboard pages from embedded HTML templates.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"

	"github.com/labstack/echo/v4"
)

// Template names.
const (
	TemplateLogin = "login.html"
	TemplateHome  = "home.html"
	TemplateData  = "data_page.html"
	TemplateError = "error.html"
)

//go:embed templates/*.html
var files embed.FS

// Renderer implements echo.Renderer.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"pathEscape": url.PathEscape,
	}).ParseFS(files, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustRenderer is NewRenderer for callers that cannot continue without
// templates.
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Render executes the named template with data.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

// LoginPage is the model of the login page.
type LoginPage struct {
	AuthURL string
}

// HomePage is the model of the landing page.
type HomePage struct {
	UserName string
	Pages    []string
	Flash    string
}

// ErrorPage is the model of the error page.
type ErrorPage struct {
	Status  int
	Message string
}
