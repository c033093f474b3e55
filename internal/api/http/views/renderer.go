// Package views renders the dashboard's pages and fragments with pongo2.
package views

import (
	"embed"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var StaticFS embed.FS

// embedLoader serves templates from the embedded tree.
type embedLoader struct{}

func (embedLoader) Abs(base, name string) string {
	return path.Clean(strings.TrimPrefix(name, "/"))
}

func (embedLoader) Get(name string) (io.Reader, error) {
	f, err := templateFS.Open(path.Join("templates", name))
	if err != nil {
		return nil, fmt.Errorf("template %s: %w", name, err)
	}
	return f, nil
}

// Renderer executes the named templates of the embedded set.
type Renderer struct {
	set   *pongo2.TemplateSet
	mu    sync.RWMutex
	cache map[string]*pongo2.Template
	app   pongo2.Context
}

// NewRenderer builds the template set and verifies every page compiles.
func NewRenderer(appName, version string) (*Renderer, error) {
	set := pongo2.NewSet("dashboard", embedLoader{})
	set.Globals["app_name"] = appName
	set.Globals["app_version"] = version
	r := &Renderer{set: set, cache: make(map[string]*pongo2.Template)}
	for _, name := range []string{
		PageTickets, PageStats, PageAbout, PageError,
		FragmentTickets, FragmentStats,
	} {
		if _, err := r.template(name); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Template names.
const (
	PageTickets     = "pages/tickets.pongo2"
	PageStats       = "pages/stats.pongo2"
	PageAbout       = "pages/about.pongo2"
	PageError       = "pages/error.pongo2"
	FragmentTickets = "partials/tickets_fragment.pongo2"
	FragmentStats   = "partials/stats_fragment.pongo2"
)

func (r *Renderer) template(name string) (*pongo2.Template, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}
	tpl, err := r.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	r.mu.Lock()
	r.cache[name] = tpl
	r.mu.Unlock()
	return tpl, nil
}

// Render executes template name with ctx.
func (r *Renderer) Render(name string, ctx pongo2.Context) (string, error) {
	tpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	out, err := tpl.Execute(ctx)
	if err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return out, nil
}
