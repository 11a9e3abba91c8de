package profiles

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-schemalint/pkg/rules"
)

func TestResolveEmbeddedProfile(t *testing.T) {
	store := NewStore()
	cfg, err := store.Resolve("statement_only")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Name != "statement_only" {
		t.Errorf("Name = %q, want statement_only", cfg.Name)
	}
	if got := cfg.RequiredTopLevelKeys(); len(got) != 1 || got[0] != "statement" {
		t.Errorf("RequiredTopLevelKeys() = %v, want [statement]", got)
	}
	if got := cfg.RequiredFields("statement"); len(got) != 2 {
		t.Errorf("RequiredFields(statement) = %v, want two fields", got)
	}
	if got := cfg.RequiredFields("unknown"); got != nil {
		t.Errorf("RequiredFields(unknown) = %v, want nil", got)
	}
}

func TestResolveUnknownProfile(t *testing.T) {
	store := NewStore()
	_, err := store.Resolve("does_not_exist")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve error = %v, want ErrNotFound", err)
	}
}

func TestResolveEmptyName(t *testing.T) {
	store := NewStore()
	if _, err := store.Resolve(""); err == nil {
		t.Error("Resolve(\"\") succeeded")
	}
}

func TestNamesListsEmbeddedProfiles(t *testing.T) {
	store := NewStore()
	names := store.Names()
	found := false
	for _, name := range names {
		if name == "statement_only" {
			found = true
		}
	}
	if !found {
		t.Errorf("Names() = %v, want statement_only present", names)
	}
}

func TestStoreWithCustomFS(t *testing.T) {
	fsys := fstest.MapFS{
		"custom.yaml": &fstest.MapFile{Data: []byte(`
description: test profile
rules:
  top_level:
    required: [header]
`)},
	}

	store := NewStore(WithFS(fsys))
	cfg, err := store.Resolve("custom")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Name != "custom" {
		t.Errorf("Name = %q, want file stem as fallback", cfg.Name)
	}
	if got := cfg.AllowedTopLevelKeys(); len(got) != 1 || got[0] != "header" {
		t.Errorf("AllowedTopLevelKeys() = %v, want required as fallback", got)
	}
	if !store.Has("custom") {
		t.Error("Has(custom) = false")
	}
	if store.Has("statement_only") {
		t.Error("Has(statement_only) = true on custom store")
	}
}

func TestResolveMalformedProfile(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.yaml": &fstest.MapFile{Data: []byte("rules: [not: a mapping\n")},
	}
	store := NewStore(WithFS(fsys))
	if _, err := store.Resolve("broken"); err == nil {
		t.Error("Resolve succeeded on malformed profile")
	}
}

func TestRulesMaterialization(t *testing.T) {
	store := NewStore()
	cfg, err := store.Resolve("statement_only")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	materialized := Rules(cfg)
	if len(materialized) != 3 {
		t.Fatalf("Rules() returned %d rules, want 3: %v", len(materialized), materialized)
	}
	if _, ok := materialized[0].(rules.TopLevelKeysRule); !ok {
		t.Errorf("Rules()[0] = %T, want TopLevelKeysRule", materialized[0])
	}
	if _, ok := materialized[1].(rules.RequiredFieldsRule); !ok {
		t.Errorf("Rules()[1] = %T, want RequiredFieldsRule", materialized[1])
	}
	if _, ok := materialized[2].(rules.FieldsDictTypeRule); !ok {
		t.Errorf("Rules()[2] = %T, want FieldsDictTypeRule", materialized[2])
	}
}

func TestRegisterInstallsUnderProfileName(t *testing.T) {
	store := NewStore()
	cfg, err := store.Resolve("statement_only")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	reg := rules.NewRegistry()
	Register(reg, "statement_only", cfg)
	if !reg.HasProfile("statement_only") {
		t.Fatal("registry missing statement_only profile")
	}
	if got := len(reg.ProfileRules("statement_only")); got != 3 {
		t.Errorf("ProfileRules len = %d, want 3", got)
	}
}

func TestRegisterKeysByResolvedName(t *testing.T) {
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
	store := NewStore(WithFS(fsys))
	cfg, err := store.Resolve("billing")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	reg := rules.NewRegistry()
	Register(reg, "billing", cfg)
	if !reg.HasProfile("billing") {
		t.Fatal("registry missing billing profile")
	}
	if reg.HasProfile("statement_rules") {
		t.Error("rules registered under the document name instead of the resolved name")
	}

	// Empty name falls back to the document's own name field.
	fallback := rules.NewRegistry()
	Register(fallback, "", cfg)
	if !fallback.HasProfile("statement_rules") {
		t.Error("empty name did not fall back to the profile's name field")
	}
}
