package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitecrew/timeclock/internal/core/authz"
	"github.com/sitecrew/timeclock/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// Renderer renders embedded pages inside the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

var templateFuncs = template.FuncMap{
	"datetime": func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return t.UTC().Format("2006-01-02 15:04")
		case *time.Time:
			if t == nil {
				return ""
			}
			return t.UTC().Format("2006-01-02 15:04")
		}
		return ""
	},
	"hours": func(h float64) string {
		return fmt.Sprintf("%.2f", h)
	},
	"entryHours": func(e domain.TimeEntry) string {
		if h, ok := e.DurationHours(); ok {
			return fmt.Sprintf("%.2f", h)
		}
		return "-"
	},
	"duration": func(e domain.TimeEntry) string {
		return e.DurationFormatted()
	},
}

// NewRenderer parses every page template together with the layout.
func NewRenderer() (*Renderer, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		if f == layoutFile {
			continue
		}
		t, err := template.New(path.Base(layoutFile)).Funcs(templateFuncs).ParseFS(templateFS, layoutFile, f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		r.pages[path.Base(f)] = t
	}
	return r, nil
}

// Render satisfies echo.Renderer. name is the page file name, e.g. "dashboard.html".
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, path.Base(layoutFile), data)
}

// view is the data every page receives.
type view struct {
	Title   string
	User    *domain.User
	Can     authz.Permissions
	Flashes []Flash
	CSRF    string
	Data    any
}

// render executes page with the common view. Flashes are consumed here.
func render(c echo.Context, status int, page, title string, data any) error {
	v := view{
		Title:   title,
		User:    currentUser(c),
		Flashes: takeFlashes(c),
		Data:    data,
	}
	if v.User != nil {
		v.Can = authz.PermissionsFor(v.User.Role)
	}
	if token, ok := c.Get("csrf").(string); ok {
		v.CSRF = token
	}
	return c.Render(status, page, v)
}
