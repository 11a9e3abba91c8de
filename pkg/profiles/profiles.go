// Package profiles resolves named validation profiles to declarative
// constraint sets. Profiles are plain YAML documents; a default set ships
// embedded in the binary and callers can point a store at their own fs.FS.
package profiles

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemalint/pkg/rules"
)

//go:embed configs/*.yaml
var embeddedConfigs embed.FS

// ErrNotFound reports that no profile with the requested name exists in the
// store. Callers should surface it before any document parsing starts.
var ErrNotFound = errors.New("profiles: profile not found")

// Config is one parsed profile: the constraints the rule engine layers on
// top of the always-on core rules.
type Config struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Version     string    `yaml:"version"`
	Rules       RulesSpec `yaml:"rules"`
}

// RulesSpec is the declarative constraint block of a profile document.
type RulesSpec struct {
	TopLevel KeySpec              `yaml:"top_level"`
	Groups   map[string]GroupSpec `yaml:"groups"`
}

// KeySpec constrains the document's top-level keys.
type KeySpec struct {
	Required []string `yaml:"required"`
	Allowed  []string `yaml:"allowed"`
}

// GroupSpec constrains one group's fields.
type GroupSpec struct {
	Fields FieldSpec `yaml:"fields"`
}

// FieldSpec names the required fields of a group and optionally pins the
// fields container shape ("dict").
type FieldSpec struct {
	Type     string   `yaml:"type"`
	Required []string `yaml:"required"`
}

// RequiredTopLevelKeys returns the profile's required top-level keys.
func (c Config) RequiredTopLevelKeys() []string { return c.Rules.TopLevel.Required }

// AllowedTopLevelKeys returns the allowed top-level keys, defaulting to the
// required set when the profile does not spell out an allowlist.
func (c Config) AllowedTopLevelKeys() []string {
	if len(c.Rules.TopLevel.Allowed) > 0 {
		return c.Rules.TopLevel.Allowed
	}
	return c.Rules.TopLevel.Required
}

// RequiredFields returns the required field names for a group, or nil when
// the profile places no field constraints on it.
func (c Config) RequiredFields(group string) []string {
	return c.Rules.Groups[group].Fields.Required
}

// Option configures a Store.
type Option func(*Store)

// WithFS points the store at an alternative filesystem of profile documents.
// Each "*.yaml" file at the FS root is one profile named after the file stem.
func WithFS(fsys fs.FS) Option {
	return func(s *Store) {
		if fsys != nil {
			s.fsys = fsys
		}
	}
}

// Store resolves profile names against a filesystem of YAML documents.
type Store struct {
	fsys fs.FS
}

// NewStore builds a store over the embedded default profiles unless an
// option overrides the filesystem.
func NewStore(options ...Option) *Store {
	sub, err := fs.Sub(embeddedConfigs, "configs")
	if err != nil {
		sub = embeddedConfigs
	}
	s := &Store{fsys: sub}
	for _, opt := range options {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resolve loads and parses the named profile. A missing document yields
// ErrNotFound; a malformed one a descriptive error.
func (s *Store) Resolve(name string) (Config, error) {
	cleaned := strings.TrimSpace(name)
	if cleaned == "" {
		return Config{}, fmt.Errorf("profiles: name is required")
	}

	data, err := fs.ReadFile(s.fsys, cleaned+".yaml")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrNotFound, cleaned)
		}
		return Config{}, fmt.Errorf("profiles: read %s: %w", cleaned, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("profiles: parse %s: %w", cleaned, err)
	}
	if cfg.Name == "" {
		cfg.Name = cleaned
	}
	return cfg, nil
}

// Has reports whether the named profile exists in the store.
func (s *Store) Has(name string) bool {
	_, err := s.Resolve(name)
	return err == nil
}

// Names enumerates every profile the store knows about, sorted.
func (s *Store) Names() []string {
	entries, err := fs.ReadDir(s.fsys, ".")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ext := path.Ext(entry.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, strings.TrimSuffix(entry.Name(), ext))
		}
	}
	sort.Strings(names)
	return names
}

// Rules materializes the rule instances a profile's constraint set implies,
// in a stable order: top-level keys first, then per-group constraints sorted
// by group name.
func Rules(cfg Config) []rules.Rule {
	var out []rules.Rule

	if len(cfg.RequiredTopLevelKeys()) > 0 || len(cfg.AllowedTopLevelKeys()) > 0 {
		out = append(out, rules.NewTopLevelKeysRule(
			cfg.RequiredTopLevelKeys(),
			cfg.AllowedTopLevelKeys(),
		))
	}

	groups := make([]string, 0, len(cfg.Rules.Groups))
	for name := range cfg.Rules.Groups {
		groups = append(groups, name)
	}
	sort.Strings(groups)

	for _, group := range groups {
		spec := cfg.Rules.Groups[group]
		if len(spec.Fields.Required) > 0 {
			out = append(out, rules.NewRequiredFieldsRule(group, spec.Fields.Required))
		}
		if spec.Fields.Type == "dict" {
			out = append(out, rules.NewFieldsDictTypeRule(group))
		}
	}

	return out
}

// Register installs the profile's rules on a registry under the given name.
// The name must match the one later passed to RunProfile; a profile document
// whose name field differs from its filename still runs under the name the
// caller resolved it by.
func Register(reg *rules.Registry, name string, cfg Config) {
	if name == "" {
		name = cfg.Name
	}
	for _, rule := range Rules(cfg) {
		reg.RegisterProfile(name, rule)
	}
}
