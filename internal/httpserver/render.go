package httpserver

import (
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/orders/internal/invoice"
	"github.com/Skotchmaster/orders/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

type Templates struct {
	t *template.Template
}

type formField struct {
	Name  string
	Label string
	Value string
	Error string
}

func NewTemplates() (*Templates, error) {
	funcs := template.FuncMap{
		"money": invoice.Money,
		"field": func(name, label, value string, errs service.FieldErrors) formField {
			return formField{Name: name, Label: label, Value: value, Error: errs[name]}
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Templates{t: t}, nil
}

func (t *Templates) Render(w io.Writer, name string, data any, _ echo.Context) error {
	return t.t.ExecuteTemplate(w, name, data)
}
