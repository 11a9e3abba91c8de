package schemalint

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-schemalint/pkg/profiles"
	"github.com/goliatone/go-schemalint/pkg/rules"
	"github.com/goliatone/go-schemalint/pkg/testsupport"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

func TestValidateStatementDocument(t *testing.T) {
	text := testsupport.MustReadFixture(t, "testdata/statement.yaml")

	result, err := Validate(text)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %v", result.Errors)
	}
	if result.WarningCount() != 0 {
		t.Errorf("warnings = %v", result.Warnings)
	}
}

func TestValidateWithProfile(t *testing.T) {
	text := testsupport.MustReadFixture(t, "testdata/statement.yaml")

	result, err := Validate(text, WithProfile("statement_only"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %v", result.Errors)
	}
}

func TestValidateProfileMissingField(t *testing.T) {
	text := testsupport.MustReadFixture(t, "testdata/missing_charges.yaml")

	result, err := Validate(text, WithProfile("statement_only"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Success {
		t.Fatal("Success = true, want profile failure")
	}
	if result.ErrorCount() != 1 {
		t.Fatalf("got %d errors, want 1: %v", result.ErrorCount(), result.Errors)
	}
	issue := result.Errors[0]
	if issue.Code != validation.CodeProfileMissingRequiredField {
		t.Errorf("Code = %s, want %s", issue.Code, validation.CodeProfileMissingRequiredField)
	}
	if got := issue.FormatPath(); !strings.HasSuffix(got, "charges") {
		t.Errorf("FormatPath() = %q, want path ending in charges", got)
	}
}

func TestValidateUnknownProfileFailsBeforeParsing(t *testing.T) {
	_, err := Validate("not even yaml: [", WithProfile("nope"))
	if !errors.Is(err, ErrProfileNotFound) {
		t.Errorf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestValidateSyntaxErrorShortCircuits(t *testing.T) {
	result, err := Validate("statement:\n\tfields: {}\n", WithProfile("statement_only"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Success {
		t.Fatal("Success = true on tabbed input")
	}
	if result.ErrorCount() != 1 {
		t.Fatalf("got %d errors, want exactly the parse issue: %v", result.ErrorCount(), result.Errors)
	}
	if result.Errors[0].Code != validation.CodeTabError {
		t.Errorf("Code = %s, want %s", result.Errors[0].Code, validation.CodeTabError)
	}
}

func TestValidateLoadErrorsVoidRulePhases(t *testing.T) {
	text := `statement:
  bogus: true
  fields:
    meters: {}
`
	result, err := Validate(text)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Success {
		t.Fatal("Success = true on load failure")
	}
	for _, issue := range result.Errors {
		if issue.Code != validation.CodeLoadError {
			t.Errorf("unexpected non-load issue %s; rules ran on a voided model", issue.Code)
		}
	}
}

func TestValidateFailFastSkipsProfileRules(t *testing.T) {
	// Missing prompt is a core error; without charges the profile would add
	// another, but fail-fast stops after the core phase.
	text := `statement:
  fields:
    meters: {}
`
	result, err := Validate(text, WithProfile("statement_only"), WithFailFast())
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	for _, issue := range result.Errors {
		if issue.Code == validation.CodeProfileMissingRequiredField {
			t.Errorf("profile rule ran despite fail-fast: %v", issue)
		}
	}

	full, err := Validate(text, WithProfile("statement_only"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if full.ErrorCount() <= result.ErrorCount() {
		t.Errorf("full run errors = %d, fail-fast = %d; expected profile phase to add more",
			full.ErrorCount(), result.ErrorCount())
	}
}

func TestValidateAccumulatesAcrossPhases(t *testing.T) {
	text := `statement:
  fields:
    meters:
      prompt:
        identifiers: [m]
        type: str
        required: true
extra:
  fields:
    e:
      prompt:
        identifiers: [e]
        type: str
`
	result, err := Validate(text, WithProfile("statement_only"))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Success {
		t.Fatal("Success = true")
	}

	var haveDisallowedKey, haveMissingField bool
	for _, issue := range result.Errors {
		switch issue.Code {
		case validation.CodeProfileInvalidTopLevelKey:
			haveDisallowedKey = true
		case validation.CodeProfileMissingRequiredField:
			haveMissingField = true
		}
	}
	if !haveDisallowedKey || !haveMissingField {
		t.Errorf("expected both profile issues, got %v", result.Errors)
	}
	if result.WarningCount() != 1 {
		t.Errorf("warnings = %v, want the core required-ignored warning", result.Warnings)
	}
}

func TestValidateWithCallerRegistry(t *testing.T) {
	reg := rules.NewRegistry()
	rules.RegisterCoreRules(reg)

	text := testsupport.MustReadFixture(t, "testdata/statement.yaml")
	result, err := Validate(text, WithRegistry(reg))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %v", result.Errors)
	}
}

func TestValidateProfileNamedDifferentlyFromFile(t *testing.T) {
	// A profile document may carry a name field that differs from the
	// filename it resolves under; its rules must still run.
	fsys := fstest.MapFS{
		"billing.yaml": &fstest.MapFile{Data: []byte(`
name: statement_rules
rules:
  groups:
    statement:
      fields:
        required: [charges]
`)},
	}
	store := profiles.NewStore(profiles.WithFS(fsys))
	text := testsupport.MustReadFixture(t, "testdata/missing_charges.yaml")

	result, err := Validate(text, WithProfile("billing"), WithProfileStore(store))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if result.Success {
		t.Fatal("Success = true, want the profile's required-field error")
	}

	found := false
	for _, issue := range result.Errors {
		if issue.Code == validation.CodeProfileMissingRequiredField &&
			strings.HasSuffix(issue.FormatPath(), "charges") {
			found = true
		}
	}
	if !found {
		t.Errorf("no missing-charges error in %v", result.Errors)
	}
}

func TestValidateWithCustomProfileStore(t *testing.T) {
	store := profiles.NewStore()
	text := testsupport.MustReadFixture(t, "testdata/statement.yaml")
	if _, err := Validate(text, WithProfileStore(store), WithProfile("statement_only")); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateFile(t *testing.T) {
	result, err := ValidateFile("testdata/statement.yaml")
	if err != nil {
		t.Fatalf("ValidateFile: %v", err)
	}
	if !result.Success {
		t.Errorf("Success = false: %v", result.Errors)
	}

	if _, err := ValidateFile("testdata/does_not_exist.yaml"); err == nil {
		t.Error("ValidateFile succeeded on missing file")
	}
}

func TestQuickValidate(t *testing.T) {
	if !QuickValidate("statement:\n  fields: {}\n") {
		t.Error("QuickValidate = false on structurally valid document")
	}
	if QuickValidate("") {
		t.Error("QuickValidate = true on empty document")
	}
}

func TestDefaultRegistryHasCoreRules(t *testing.T) {
	reg := DefaultRegistry()
	if got := len(reg.CoreRules()); got != len(rules.CoreRules()) {
		t.Errorf("core rules = %d, want %d", got, len(rules.CoreRules()))
	}
}
