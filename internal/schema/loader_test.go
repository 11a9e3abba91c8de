package schema

import (
	"strings"
	"testing"

	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

func parseFixture(t *testing.T, text string) (any, syntax.LineMap) {
	t.Helper()
	parsed := syntax.Parse(text)
	if !parsed.Success {
		t.Fatalf("parse fixture: %v", parsed.Error)
	}
	return parsed.Data, parsed.LineMap
}

func TestLoadValidDocument(t *testing.T) {
	data, lines := parseFixture(t, `statement:
  prompt:
    instructions: Extract billing data
  fields:
    meters:
      prompt:
        identifiers:
          - meter number
        type: str
        required: true
`)

	model, issues := Load(data, lines)
	if len(issues) > 0 {
		t.Fatalf("Load returned issues: %v", issues)
	}

	group, ok := model["statement"]
	if !ok {
		t.Fatal("model missing 'statement' group")
	}
	if group.Prompt == nil || group.Prompt.Instructions != "Extract billing data" {
		t.Errorf("group prompt = %+v, want instructions set", group.Prompt)
	}

	field, ok := group.Fields["meters"]
	if !ok {
		t.Fatal("group missing 'meters' field")
	}
	if field.Prompt == nil {
		t.Fatal("field prompt is nil")
	}
	if got := field.Prompt.Identifiers; len(got) != 1 || got[0] != "meter number" {
		t.Errorf("identifiers = %v, want [meter number]", got)
	}
	if got := field.Prompt.Type; len(got) != 1 || got[0] != "str" {
		t.Errorf("type = %v, want [str]", got)
	}
	if field.Prompt.Required == nil || !*field.Prompt.Required {
		t.Error("required = nil or false, want true")
	}
}

func TestLoadTypeAcceptsList(t *testing.T) {
	data, lines := parseFixture(t, `statement:
  fields:
    amount:
      prompt:
        identifiers: [amount]
        type: [str, float]
`)
	model, issues := Load(data, lines)
	if len(issues) > 0 {
		t.Fatalf("Load returned issues: %v", issues)
	}
	got := model["statement"].Fields["amount"].Prompt.Type
	if len(got) != 2 || got[0] != "str" || got[1] != "float" {
		t.Errorf("type = %v, want [str float]", got)
	}
}

func TestLoadTreatsNullValuesAsAbsent(t *testing.T) {
	// An explicit null for prompt or fields is the key being present with no
	// value; it loads as if the key were absent and the rules decide later
	// whether that is a problem.
	data, lines := parseFixture(t, `statement:
  prompt:
  fields:
`)
	model, issues := Load(data, lines)
	if len(issues) > 0 {
		t.Fatalf("Load returned issues: %v", issues)
	}
	group := model["statement"]
	if group.Prompt != nil {
		t.Errorf("Prompt = %+v, want nil for explicit null", group.Prompt)
	}
	if group.Fields != nil {
		t.Errorf("Fields = %v, want nil for explicit null", group.Fields)
	}

	data, lines = parseFixture(t, `statement:
  fields:
    meters:
      prompt:
`)
	model, issues = Load(data, lines)
	if len(issues) > 0 {
		t.Fatalf("Load returned issues: %v", issues)
	}
	if got := model["statement"].Fields["meters"].Prompt; got != nil {
		t.Errorf("field Prompt = %+v, want nil for explicit null", got)
	}
}

func TestLoadIsAllOrNothing(t *testing.T) {
	data, lines := parseFixture(t, `statement:
  fields:
    good:
      prompt:
        identifiers: [ok]
        type: str
    bad:
      prompt:
        bogus: 1
`)
	model, issues := Load(data, lines)
	if model != nil {
		t.Error("model is non-nil despite issues")
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if issues[0].Code != validation.CodeLoadError {
		t.Errorf("Code = %s, want %s", issues[0].Code, validation.CodeLoadError)
	}
	if want := "Unknown field 'bogus' is not allowed"; issues[0].Message != want {
		t.Errorf("Message = %q, want %q", issues[0].Message, want)
	}
}

func TestLoadRejectsNonMappingTopLevel(t *testing.T) {
	data, lines := parseFixture(t, "- a\n- b\n")
	model, issues := Load(data, lines)
	if model != nil {
		t.Error("model is non-nil")
	}
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	if issues[0].Code != validation.CodeStructureError {
		t.Errorf("Code = %s, want %s", issues[0].Code, validation.CodeStructureError)
	}
	if want := "Top-level must be a mapping, got list"; issues[0].Message != want {
		t.Errorf("Message = %q, want %q", issues[0].Message, want)
	}
}

func TestLoadRejectsNonMappingGroup(t *testing.T) {
	data, lines := parseFixture(t, "statement: just a string\n")
	_, issues := Load(data, lines)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	issue := issues[0]
	if want := "Group 'statement' must be a mapping"; issue.Message != want {
		t.Errorf("Message = %q, want %q", issue.Message, want)
	}
	if issue.Line != 1 {
		t.Errorf("Line = %d, want 1", issue.Line)
	}
	if issue.Suggestion == "" {
		t.Error("expected a suggestion")
	}
}

func TestLoadRejectsEmptyIdentifiers(t *testing.T) {
	data, lines := parseFixture(t, `statement:
  fields:
    meters:
      prompt:
        identifiers: []
        type: str
`)
	_, issues := Load(data, lines)
	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1: %v", len(issues), issues)
	}
	if !strings.Contains(issues[0].Message, "identifiers cannot be an empty list") {
		t.Errorf("Message = %q, want empty-list rejection", issues[0].Message)
	}
	wantPath := "statement.fields.meters.prompt.identifiers"
	if got := issues[0].FormatPath(); got != wantPath {
		t.Errorf("FormatPath() = %q, want %q", got, wantPath)
	}
	if issues[0].Line != 5 {
		t.Errorf("Line = %d, want 5", issues[0].Line)
	}
}

func TestLoadRejectsWrongTypes(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantMessage string
	}{
		{
			name: "identifiers not a list",
			doc: `statement:
  fields:
    f:
      prompt:
        identifiers: nope
`,
			wantMessage: "Expected a list",
		},
		{
			name: "type is a number",
			doc: `statement:
  fields:
    f:
      prompt:
        identifiers: [x]
        type: 42
`,
			wantMessage: "type must be a string or list of strings, got integer",
		},
		{
			name: "required not a boolean",
			doc: `statement:
  fields:
    f:
      prompt:
        identifiers: [x]
        type: str
        required: yes please
`,
			wantMessage: "Expected a boolean value",
		},
		{
			name: "instructions not a string",
			doc: `statement:
  prompt:
    instructions: [not, a, string]
`,
			wantMessage: "Expected a string value",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, lines := parseFixture(t, tt.doc)
			model, issues := Load(data, lines)
			if model != nil {
				t.Error("model is non-nil despite issues")
			}
			if len(issues) == 0 {
				t.Fatal("Load returned no issues")
			}
			found := false
			for _, issue := range issues {
				if strings.Contains(issue.Message, tt.wantMessage) {
					found = true
				}
			}
			if !found {
				t.Errorf("no issue contains %q, got %v", tt.wantMessage, issues)
			}
		})
	}
}

func TestLoadCollectsMultipleIssues(t *testing.T) {
	data, lines := parseFixture(t, `statement:
  extra: 1
  fields:
    f:
      prompt:
        identifiers: []
        bogus: true
`)
	_, issues := Load(data, lines)
	if len(issues) != 3 {
		t.Fatalf("got %d issues, want 3: %v", len(issues), issues)
	}
}

func TestIgnoredGroupAttrsOrder(t *testing.T) {
	str := "x"
	required := true
	prompt := &Prompt{
		Identifiers: []string{"a"},
		Type:        []string{"str"},
		AttrName:    &str,
		Default:     1,
		Description: &str,
		Format:      &str,
		Required:    &required,
	}

	want := []string{"identifiers", "type", "attr_name", "default", "description", "format", "required"}
	got := prompt.IgnoredGroupAttrs()
	if len(got) != len(want) {
		t.Fatalf("IgnoredGroupAttrs() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("IgnoredGroupAttrs()[%d] = %s, want %s", i, got[i], want[i])
		}
	}

	sparse := &Prompt{Type: []string{"str"}}
	if got := sparse.IgnoredGroupAttrs(); len(got) != 1 || got[0] != "type" {
		t.Errorf("sparse IgnoredGroupAttrs() = %v, want [type]", got)
	}
}
