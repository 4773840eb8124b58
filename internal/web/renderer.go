// Package web renders the dashboard layout, its pages and the login page.
package web

import (
	"embed"
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin/render"

	"admin-dashboard/internal/route"
)

//go:embed templates/*.html
var templateFS embed.FS

type entry struct {
	tmpl *template.Template
	name string
}

// Renderer implements gin's render.HTMLRender. Each protected page is its
// own template set built from the layout plus the page's content block.
type Renderer struct {
	entries map[string]entry
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{entries: make(map[string]entry)}

	login, err := template.ParseFS(templateFS, "templates/"+route.Login.Template)
	if err != nil {
		return nil, fmt.Errorf("web: parse %s: %w", route.Login.Template, err)
	}
	r.entries[route.Login.Name] = entry{tmpl: login, name: "login"}

	for _, p := range route.Pages {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+p.Template)
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", p.Template, err)
		}
		r.entries[p.Name] = entry{tmpl: t, name: "layout"}
	}
	return r, nil
}

// Instance returns the renderer for the page registered under name.
func (r *Renderer) Instance(name string, data any) render.Render {
	e, ok := r.entries[name]
	if !ok {
		return render.String{Format: "unknown page %q", Data: []any{name}}
	}
	return render.HTML{Template: e.tmpl, Name: e.name, Data: data}
}
