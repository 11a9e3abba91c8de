// Package report renders validation results into standalone HTML documents.
// It only consumes the pipeline's output types; nothing here feeds back into
// validation.
package report

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"time"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-schemalint/pkg/report/gotemplate"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

//go:embed templates/*.tpl
var embeddedTemplates embed.FS

// Meta describes the validated document for the report header.
type Meta struct {
	Filename    string
	Profile     string
	Source      string
	GeneratedAt time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithRenderer swaps the template engine behind the generator.
func WithRenderer(renderer TemplateRenderer) Option {
	return func(g *Generator) {
		if renderer != nil {
			g.renderer = renderer
		}
	}
}

// WithThemeSelector resolves report styling through a go-theme selector. The
// selected manifest's tokens override the built-in palette as CSS variables.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(g *Generator) {
		g.selector = selector
		g.themeName = name
		g.themeVariant = variant
	}
}

// Generator renders validation results through a TemplateRenderer.
type Generator struct {
	renderer     TemplateRenderer
	policy       *bluemonday.Policy
	selector     theme.ThemeSelector
	themeName    string
	themeVariant string
}

// NewGenerator builds a generator over the embedded report templates unless
// an option supplies a different renderer.
func NewGenerator(options ...Option) (*Generator, error) {
	templates, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("report: embed templates: %w", err)
	}
	engine, err := gotemplate.New(gotemplate.WithFS(templates))
	if err != nil {
		return nil, fmt.Errorf("report: build engine: %w", err)
	}

	g := &Generator{
		renderer: engine,
		policy:   bluemonday.StrictPolicy(),
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// Generate renders the result into a standalone HTML document. Messages,
// suggestions and source text are sanitized before templating so diagnostic
// strings can never smuggle markup into the report.
func (g *Generator) Generate(result validation.Result, meta Meta) ([]byte, error) {
	generatedAt := meta.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	data := map[string]any{
		"filename":      g.sanitize(meta.Filename),
		"profile":       g.sanitize(meta.Profile),
		"generated_at":  generatedAt.Format(time.RFC1123),
		"success":       result.Success,
		"error_count":   result.ErrorCount(),
		"warning_count": result.WarningCount(),
		"errors":        g.issueContexts(result.Errors),
		"warnings":      g.issueContexts(result.Warnings),
		"source":        g.sanitize(meta.Source),
		"css_vars":      g.cssVars(),
	}

	rendered, err := g.renderer.RenderTemplate("report.html", data)
	if err != nil {
		return nil, fmt.Errorf("report: render: %w", err)
	}
	return []byte(rendered), nil
}

// Save renders the report and writes it to path.
func (g *Generator) Save(path string, result validation.Result, meta Meta) error {
	rendered, err := g.Generate(result, meta)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, rendered, 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	return nil
}

func (g *Generator) issueContexts(issues []validation.Issue) []map[string]any {
	out := make([]map[string]any, 0, len(issues))
	for _, issue := range issues {
		out = append(out, map[string]any{
			"code":       g.sanitize(issue.Code),
			"message":    g.sanitize(issue.Message),
			"path":       g.sanitize(issue.FormatPath()),
			"line":       issue.Line,
			"suggestion": g.sanitize(issue.Suggestion),
		})
	}
	return out
}

func (g *Generator) sanitize(s string) string {
	if g.policy == nil {
		return s
	}
	return g.policy.Sanitize(s)
}

// defaultTokens is the built-in palette used when no theme is selected or a
// selected manifest omits a token.
var defaultTokens = map[string]string{
	"color-bg":      "#ffffff",
	"color-fg":      "#1f2430",
	"color-muted":   "#6b7280",
	"color-border":  "#d1d5db",
	"color-card":    "#f3f4f6",
	"color-pass-bg": "#dcfce7",
	"color-pass-fg": "#166534",
	"color-fail-bg": "#fee2e2",
	"color-fail-fg": "#991b1b",
	"color-warn-fg": "#92400e",
	"font-body":     "system-ui, sans-serif",
	"font-mono":     "ui-monospace, monospace",
}

// cssVars merges theme manifest tokens over the default palette and prefixes
// each token name with "--" for the stylesheet.
func (g *Generator) cssVars() map[string]string {
	tokens := make(map[string]string, len(defaultTokens))
	for name, value := range defaultTokens {
		tokens[name] = value
	}

	if g.selector != nil {
		if selection, err := g.selector.Select(g.themeName, g.themeVariant); err == nil {
			if selection != nil && selection.Manifest != nil {
				for name, value := range selection.Manifest.Tokens {
					tokens[name] = value
				}
			}
		}
	}

	vars := make(map[string]string, len(tokens))
	for name, value := range tokens {
		vars["--"+name] = value
	}
	return vars
}
