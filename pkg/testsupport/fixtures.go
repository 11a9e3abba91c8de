// Package testsupport holds shared fixture helpers for the validator tests.
package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemalint/pkg/schema"
	"github.com/goliatone/go-schemalint/pkg/syntax"
)

// MustReadFixture reads a testdata file and returns its contents as a string.
func MustReadFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	return string(data)
}

// MustParse parses document text and fails the test on any syntax issue.
func MustParse(t *testing.T, text string) syntax.ParseResult {
	t.Helper()
	parsed := syntax.Parse(text)
	if !parsed.Success {
		t.Fatalf("parse fixture: %v", parsed.Error)
	}
	return parsed
}

// MustLoad parses and loads document text into a typed schema, failing the
// test on any parse or load issue.
func MustLoad(t *testing.T, text string) (schema.Schema, syntax.LineMap) {
	t.Helper()
	parsed := MustParse(t, text)
	model, issues := schema.Load(parsed.Data, parsed.LineMap)
	if len(issues) > 0 {
		t.Fatalf("load fixture: %v", issues)
	}
	return model, parsed.LineMap
}

// WriteTempFile writes content to a file under t.TempDir and returns its path.
func WriteTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

// Diff returns a human-readable diff between expected and actual values.
func Diff(want, got any) string {
	return cmp.Diff(want, got)
}
