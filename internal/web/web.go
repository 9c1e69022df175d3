package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses the embedded pages. Each page defines its own "content"
// block inside the shared layout, so pages are parsed into separate sets.
func Templates() (map[string]*template.Template, error) {
	pages := []string{"index.html", "chat.html", "admin.html", "landing.html", "notfound.html"}
	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := template.New(p).ParseFS(files, "templates/layout.html", "templates/"+p)
		if err != nil {
			return nil, err
		}
		out[p] = t
	}
	return out, nil
}
