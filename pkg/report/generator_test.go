package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemalint/pkg/validation"
)

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
}

func (s *stubThemeSelector) Select(string, string, ...theme.QueryOption) (*theme.Selection, error) {
	return s.selection, s.err
}

func failedResult() validation.Result {
	return validation.Collect([]validation.Issue{
		validation.NewError(validation.CodeFieldNoType, "Field 'meters' is missing 'type'").
			WithPath("statement", "fields", "meters", "prompt", "type").
			WithLine(6).
			WithSuggestion("Add 'type: str' (or 'int', 'float', 'date', etc.)"),
		validation.NewWarning(validation.CodeFieldRequiredIgnored, "Field 'meters' has 'required' set, but it's ignored"),
	})
}

func TestGenerateFailedReport(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	rendered, err := gen.Generate(failedResult(), Meta{
		Filename:    "config.yaml",
		Profile:     "statement_only",
		Source:      "statement:\n  fields: {}\n",
		GeneratedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	html := string(rendered)
	for _, want := range []string{
		"<!DOCTYPE html>",
		"config.yaml",
		"statement_only",
		"GXVAL205",
		"Field &#39;meters&#39; is missing &#39;type&#39;",
		"statement.fields.meters.prompt.type",
		"GXVAL302",
		"--color-bg:",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestGeneratePassedReport(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	rendered, err := gen.Generate(validation.Collect(nil), Meta{Filename: "ok.yaml"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(rendered), "PASSED") {
		t.Error("report missing pass verdict")
	}
}

func TestGenerateSanitizesDiagnostics(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	result := validation.Collect([]validation.Issue{
		validation.NewError(validation.CodeLoadError, `<script>alert("x")</script>`),
	})
	rendered, err := gen.Generate(result, Meta{
		Filename: `<img src=x onerror=alert(1)>.yaml`,
		Source:   "<script>evil()</script>",
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if strings.Contains(string(rendered), "<script>alert") ||
		strings.Contains(string(rendered), "<img src=x") ||
		strings.Contains(string(rendered), "<script>evil") {
		t.Error("unsanitized markup reached the report")
	}
}

func TestGenerateWithThemeSelector(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme: "acme",
		Manifest: &theme.Manifest{
			Name:   "acme",
			Tokens: map[string]string{"color-bg": "#000000"},
		},
	}}

	gen, err := NewGenerator(WithThemeSelector(selector, "acme", ""))
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	rendered, err := gen.Generate(validation.Collect(nil), Meta{Filename: "themed.yaml"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !strings.Contains(string(rendered), "--color-bg: #000000") {
		t.Error("theme token did not override the default palette")
	}
}

func TestSave(t *testing.T) {
	gen, err := NewGenerator()
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}

	path := filepath.Join(t.TempDir(), "report.html")
	if err := gen.Save(path, validation.Collect(nil), Meta{Filename: "x.yaml"}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "<!DOCTYPE html>") {
		t.Error("saved report is not an HTML document")
	}
}
