package portal

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const layoutFile = "templates/layout.html"

// Views holds one parsed template set per page, each sharing the layout.
type Views struct {
	pages map[string]*template.Template
}

var viewFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// LoadViews parses the embedded page templates.
func LoadViews() (*Views, error) {
	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{pages: make(map[string]*template.Template)}
	for _, file := range files {
		if file == layoutFile {
			continue
		}
		name := strings.TrimSuffix(path.Base(file), ".html")
		tmpl, err := template.New(name).Funcs(viewFuncs).ParseFS(templateFS, layoutFile, file)
		if err != nil {
			return nil, fmt.Errorf("parse view %s: %w", name, err)
		}
		v.pages[name] = tmpl
	}
	return v, nil
}

// Has reports whether a view named name exists.
func (v *Views) Has(name string) bool {
	_, ok := v.pages[name]
	return ok
}

// Render executes view name into a buffer and then writes it with status.
// Nothing is written when execution fails.
func (v *Views) Render(w http.ResponseWriter, status int, name string, data any) error {
	tmpl, ok := v.pages[name]
	if !ok {
		return domain.ErrInternal.WithDetails("unknown view " + name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return domain.ErrInternal.WithDetails("render " + name).WithCause(err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler serves the embedded stylesheet and images under /static/.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// papersLabel renders a dataset's paper count. Unknown counts render nothing.
func papersLabel(n *int) string {
	switch {
	case n == nil:
		return ""
	case *n == 0:
		return "Empty dataset"
	default:
		return fmt.Sprintf("(%d Papers)", *n)
	}
}
