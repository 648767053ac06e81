package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"cancerpredict/internal/services"
)

//go:embed templates static
var files embed.FS

// Static returns the embedded static assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(files, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// TemplateRegistry holds separate template instances for each page
type TemplateRegistry struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

func NewTemplateRegistry(funcMap template.FuncMap) *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]*template.Template),
		funcMap:   funcMap,
	}
}

func (tr *TemplateRegistry) Add(name string, tmpl *template.Template) {
	tr.templates[name] = tmpl
}

func (tr *TemplateRegistry) ExecuteTemplate(w io.Writer, name string, data interface{}) error {
	tmpl, ok := tr.templates[name]
	if ok {
		// Partial files define a template named after the file without .html
		if strings.HasSuffix(name, ".html") {
			baseName := strings.TrimSuffix(name, ".html")
			if lookup := tmpl.Lookup(baseName); lookup != nil {
				return lookup.Execute(w, data)
			}
		}
		return tmpl.ExecuteTemplate(w, name, data)
	}

	for _, t := range tr.templates {
		if lookup := t.Lookup(name); lookup != nil {
			return lookup.Execute(w, data)
		}
	}

	return fmt.Errorf("template %s not found", name)
}

// LoadTemplates parses the embedded layouts, partials and pages. Each page
// gets its own template set so pages can redefine the same blocks.
func LoadTemplates() (*TemplateRegistry, error) {
	funcMap := template.FuncMap{
		"proba":    proba,
		"features": services.FormatFeatures,
		"dict":     dict,
	}

	registry := NewTemplateRegistry(funcMap)

	layoutFiles, err := fs.Glob(files, "templates/layouts/*.html")
	if err != nil {
		return nil, err
	}
	partialFiles, err := fs.Glob(files, "templates/partials/*.html")
	if err != nil {
		return nil, err
	}
	pageFiles, err := fs.Glob(files, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	sharedFiles := append(append([]string{}, layoutFiles...), partialFiles...)

	for _, pageFile := range pageFiles {
		pageName := path.Base(pageFile)

		patterns := append(append([]string{}, sharedFiles...), pageFile)
		tmpl, err := template.New(pageName).Funcs(funcMap).ParseFS(files, patterns...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", pageFile, err)
		}
		registry.Add(pageName, tmpl)
	}

	// Partials also stand alone for HTMX responses
	for _, partialFile := range partialFiles {
		partialName := path.Base(partialFile)

		tmpl, err := template.New(partialName).Funcs(funcMap).ParseFS(files, partialFiles...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", partialFile, err)
		}
		registry.Add(partialName, tmpl)
	}

	return registry, nil
}

func proba(p float64) string {
	return fmt.Sprintf("%.2f", p)
}

func dict(values ...interface{}) map[string]interface{} {
	if len(values)%2 != 0 {
		return nil
	}
	d := make(map[string]interface{}, len(values)/2)
	for i := 0; i < len(values); i += 2 {
		key, ok := values[i].(string)
		if !ok {
			return nil
		}
		d[key] = values[i+1]
	}
	return d
}
