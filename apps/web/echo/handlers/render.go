package handlers

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/backend"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/theme"
)

//go:embed templates
var templateFS embed.FS

// Renderer renders the embedded HTML templates. Public pages share
// layout.html, admin pages share admin_layout.html; each page file defines
// a "content" block.
type Renderer struct {
	templates map[string]*template.Template
}

func NewRenderer(store *theme.Store, client *backend.Client) *Renderer {
	funcs := template.FuncMap{
		"storageURL": client.StorageURL,
		"datePart":   backend.DatePart,
		"truncate":   core.Truncate,
		"listItems":  backend.ListItems,
		"rich":       richHTML,
		"themeCSS":   func() template.CSS { return template.CSS(store.CSS()) },
		"year":       func() int { return time.Now().Year() },
	}

	pages, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(errors.Wrap(err, "handlers: listing templates"))
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := filepath.Base(page)
		layout := "templates/layout.html"
		if strings.HasPrefix(name, "admin_") {
			layout = "templates/admin_layout.html"
		}
		templates[name] = template.Must(
			template.New(name).Funcs(funcs).ParseFS(templateFS, layout, "templates/partials/*.html", page),
		)
	}
	return &Renderer{templates: templates}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return errors.Errorf("handlers: unknown template %q", name)
	}
	return tmpl.ExecuteTemplate(w, "layout", data)
}

// viewData is the bag handed to every template.
type viewData map[string]interface{}

func newViewData(title string) viewData {
	return viewData{
		"Title":   title,
		"AppName": core.Conf.AppName,
	}
}
