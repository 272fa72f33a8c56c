// Package render turns a public portfolio into a standalone HTML page. Every
// models.TemplateKind has exactly one renderer.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/rpupo63/portfolio-builder-backend/models"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"date": func(d models.Date) string {
		if d.IsZero() {
			return ""
		}
		return d.Format("Jan 2006")
	},
	"join": func(items []string) string { return strings.Join(items, " · ") },
}

// view is the data every template executes against.
type view struct {
	Kind      models.TemplateKind
	Theme     models.Theme
	Title     string
	Notice    string
	OwnerName string
	Portfolio *models.Portfolio
	Projects  []models.Project

	Primary           string
	Secondary         string
	Font              string
	GradientFrom      string
	GradientTo        string
	GradientDirection string
}

type Renderer struct {
	pages map[models.TemplateKind]*template.Template
}

// New parses the layout once per template kind.
func New() (*Renderer, error) {
	r := &Renderer{pages: make(map[models.TemplateKind]*template.Template, len(models.TemplateKinds))}
	for _, kind := range models.TemplateKinds {
		t, err := template.New(string(kind)).Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+string(kind)+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", kind, err)
		}
		r.pages[kind] = t
	}
	return r, nil
}

// Kinds reports which template kinds have a renderer.
func (r *Renderer) Kinds() []models.TemplateKind {
	kinds := make([]models.TemplateKind, 0, len(r.pages))
	for _, k := range models.TemplateKinds {
		if _, ok := r.pages[k]; ok {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// Portfolio renders p with its own template; unknown kinds fall back to the default.
func (r *Renderer) Portfolio(w io.Writer, p *models.Portfolio, projects []models.Project) error {
	kind := p.Template.OrDefault()
	v := newView(kind, p.Theme)
	v.Portfolio = p
	v.Projects = projects
	if p.Owner != nil {
		v.OwnerName = p.Owner.Name
		v.Title = p.Owner.Name
	}
	if p.Hero.Title != "" {
		v.Title = p.Hero.Title
	}
	if v.Title == "" {
		v.Title = "Portfolio"
	}

	c := p.Customization
	v.Primary = orDefault(c.PrimaryColor, v.Primary)
	v.Secondary = orDefault(c.SecondaryColor, v.Secondary)
	v.Font = orDefault(c.FontFamily, v.Font)
	g := p.Hero.Background.Gradient
	v.GradientFrom = orDefault(g.From, v.GradientFrom)
	v.GradientTo = orDefault(g.To, v.GradientTo)
	v.GradientDirection = orDefault(g.Direction, v.GradientDirection)

	return r.execute(w, v)
}

// Empty renders the page shown when a user or their portfolio does not exist.
func (r *Renderer) Empty(w io.Writer, username string) error {
	v := newView(models.DefaultTemplate, models.ThemeLight)
	v.Title = "Nothing here yet"
	v.Notice = fmt.Sprintf("%s has not published a portfolio.", username)
	return r.execute(w, v)
}

// Private renders the page shown for an unpublished portfolio.
func (r *Renderer) Private(w io.Writer, username string) error {
	v := newView(models.DefaultTemplate, models.ThemeLight)
	v.Title = "This portfolio is private"
	v.Notice = fmt.Sprintf("%s has not made this portfolio public.", username)
	return r.execute(w, v)
}

func (r *Renderer) execute(w io.Writer, v view) error {
	t, ok := r.pages[v.Kind]
	if !ok {
		return fmt.Errorf("no renderer for template %q", v.Kind)
	}
	// render fully before writing so a failed template never leaves half a page
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", v); err != nil {
		return fmt.Errorf("render %s: %w", v.Kind, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func newView(kind models.TemplateKind, theme models.Theme) view {
	if !theme.Valid() {
		theme = models.ThemeLight
	}
	c := models.DefaultCustomization()
	return view{
		Kind:              kind,
		Theme:             theme,
		Primary:           c.PrimaryColor,
		Secondary:         c.SecondaryColor,
		Font:              c.FontFamily,
		GradientFrom:      "#4F3B78",
		GradientTo:        "#6B4F9E",
		GradientDirection: "to bottom",
	}
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
