package view

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

const (
	PageTemplate  = "page.html"
	ErrorTemplate = "error.html"
)

//go:embed templates/*.html
var templates embed.FS

type Renderer struct {
	templates *template.Template
}

var _ echo.Renderer = &Renderer{}

func NewRenderer() (*Renderer, error) {
	t, err := template.ParseFS(templates, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: t}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
