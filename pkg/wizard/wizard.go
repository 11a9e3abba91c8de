// Package wizard provides an interactive flow for building schema documents
// that pass validation, optionally constrained by a named profile.
package wizard

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	schemalint "github.com/goliatone/go-schemalint"
	"github.com/goliatone/go-schemalint/pkg/profiles"
)

var fieldTypes = []string{"str", "int", "float", "date", "bool"}

// Option configures a Wizard.
type Option func(*Wizard)

// WithDriver overrides the interactive prompt driver. Useful in tests.
func WithDriver(d PromptDriver) Option {
	return func(w *Wizard) {
		if d != nil {
			w.driver = d
		}
	}
}

// WithProfileStore overrides the profile store used to resolve constraints.
func WithProfileStore(s *profiles.Store) Option {
	return func(w *Wizard) {
		if s != nil {
			w.store = s
		}
	}
}

// Wizard walks the user through creating a schema document one group and
// field at a time, then validates the result before returning it.
type Wizard struct {
	driver PromptDriver
	store  *profiles.Store
}

// New returns a Wizard backed by a terminal prompt driver.
func New(opts ...Option) *Wizard {
	w := &Wizard{
		driver: newSurveyDriver(),
		store:  profiles.NewStore(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the wizard flow and returns the generated document text.
// When profile is non-empty the flow pins the group name and required
// fields to what the profile demands, and the generated document is
// validated against that profile before being returned.
func (w *Wizard) Run(ctx context.Context, profile string) (string, error) {
	var cfg profiles.Config
	hasProfile := profile != ""
	if hasProfile {
		resolved, err := w.store.Resolve(profile)
		if err != nil {
			return "", fmt.Errorf("wizard: %w", err)
		}
		cfg = resolved
	}

	if err := w.driver.Info(ctx, "Schema Wizard\nThis wizard will guide you through creating a valid extraction schema."); err != nil {
		return "", err
	}

	groupName, err := w.askGroupName(ctx, cfg, hasProfile)
	if err != nil {
		return "", err
	}

	group := newMappingNode()

	if err := w.askGroupInstructions(ctx, group); err != nil {
		return "", err
	}

	fields := newMappingNode()
	appendEntry(group, "fields", fields)

	if err := w.askFields(ctx, cfg, hasProfile, groupName, fields); err != nil {
		return "", err
	}

	doc := newMappingNode()
	appendEntry(doc, groupName, group)

	text, err := renderDocument(doc)
	if err != nil {
		return "", err
	}

	opts := []schemalint.Option{}
	if profile != "" {
		opts = append(opts, schemalint.WithProfile(profile))
	}
	result, err := schemalint.Validate(text, opts...)
	if err != nil {
		return "", fmt.Errorf("wizard: validate generated document: %w", err)
	}
	if !result.Success {
		return "", fmt.Errorf("wizard: generated document failed validation with %d errors", result.ErrorCount())
	}

	if err := w.driver.Info(ctx, "Generated document:\n\n"+text); err != nil {
		return "", err
	}
	return text, nil
}

func (w *Wizard) askGroupName(ctx context.Context, cfg profiles.Config, hasProfile bool) (string, error) {
	if hasProfile {
		if required := cfg.RequiredTopLevelKeys(); len(required) == 1 {
			name := required[0]
			if err := w.driver.Info(ctx, fmt.Sprintf("Profile %q requires group name: %s", cfg.Name, name)); err != nil {
				return "", err
			}
			return name, nil
		}
	}
	return w.driver.Input(ctx, InputConfig{
		Message:   "Group name",
		Default:   "statement",
		Help:      "Groups organize related fields together.",
		Validator: notBlank("group name"),
	})
}

func (w *Wizard) askGroupInstructions(ctx context.Context, group *yaml.Node) error {
	add, err := w.driver.Confirm(ctx, ConfirmConfig{
		Message: "Add group-level instructions?",
		Help:    "Group-level instructions guide the overall extraction.",
	})
	if err != nil || !add {
		return err
	}
	instructions, err := w.driver.Input(ctx, InputConfig{
		Message:   "Instructions",
		Validator: notBlank("instructions"),
	})
	if err != nil {
		return err
	}
	prompt := newMappingNode()
	appendEntry(prompt, "instructions", scalarNode(instructions))
	appendEntry(group, "prompt", prompt)
	return nil
}

func (w *Wizard) askFields(ctx context.Context, cfg profiles.Config, hasProfile bool, groupName string, fields *yaml.Node) error {
	var required []string
	if hasProfile {
		required = cfg.RequiredFields(groupName)
	}
	if len(required) > 0 {
		if err := w.driver.Info(ctx, "Profile requires fields: "+strings.Join(required, ", ")); err != nil {
			return err
		}
	}

	seen := map[string]bool{}
	for _, name := range required {
		if err := w.driver.Info(ctx, "Configuring required field: "+name); err != nil {
			return err
		}
		field, err := w.configureField(ctx, name)
		if err != nil {
			return err
		}
		appendEntry(fields, name, field)
		seen[name] = true
	}

	for {
		more, err := w.driver.Confirm(ctx, ConfirmConfig{
			Message: "Add another field?",
			Default: len(required) == 0 && len(seen) == 0,
		})
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
		name, err := w.driver.Input(ctx, InputConfig{
			Message:   "Field name",
			Validator: notBlank("field name"),
		})
		if err != nil {
			return err
		}
		if seen[name] {
			if err := w.driver.Info(ctx, "Field already exists."); err != nil {
				return err
			}
			continue
		}
		field, err := w.configureField(ctx, name)
		if err != nil {
			return err
		}
		appendEntry(fields, name, field)
		seen[name] = true
	}
}

func (w *Wizard) configureField(ctx context.Context, name string) (*yaml.Node, error) {
	identifiersRaw, err := w.driver.Input(ctx, InputConfig{
		Message: "Identifiers (comma-separated)",
		Default: strings.ReplaceAll(name, "_", " "),
		Help:    "Text patterns to match in documents.",
	})
	if err != nil {
		return nil, err
	}
	identifiers := splitIdentifiers(identifiersRaw)
	if len(identifiers) == 0 {
		identifiers = []string{strings.ReplaceAll(name, "_", " ")}
	}

	typeIdx, err := w.driver.Select(ctx, SelectConfig{
		Message: "Type",
		Options: fieldTypes,
	})
	if err != nil {
		return nil, err
	}
	if typeIdx < 0 {
		typeIdx = 0
	}

	prompt := newMappingNode()
	appendEntry(prompt, "identifiers", sequenceNode(identifiers))
	appendEntry(prompt, "type", scalarNode(fieldTypes[typeIdx]))

	addDescription, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add description?"})
	if err != nil {
		return nil, err
	}
	if addDescription {
		description, err := w.driver.Input(ctx, InputConfig{
			Message:   "Description",
			Validator: notBlank("description"),
		})
		if err != nil {
			return nil, err
		}
		appendEntry(prompt, "description", scalarNode(description))
	}

	addInstructions, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Add field-specific instructions?"})
	if err != nil {
		return nil, err
	}
	if addInstructions {
		instructions, err := w.driver.Input(ctx, InputConfig{
			Message:   "Instructions",
			Validator: notBlank("instructions"),
		})
		if err != nil {
			return nil, err
		}
		appendEntry(prompt, "instructions", scalarNode(instructions))
	}

	field := newMappingNode()
	appendEntry(field, "prompt", prompt)
	return field, nil
}

func splitIdentifiers(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func notBlank(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", label)
		}
		return nil
	}
}

// Document nodes are built by hand so the generated YAML keeps the order
// the wizard asked its questions in.

func newMappingNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func sequenceNode(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, value := range values {
		seq.Content = append(seq.Content, scalarNode(value))
	}
	return seq
}

func appendEntry(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func renderDocument(root *yaml.Node) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", fmt.Errorf("wizard: encode document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("wizard: encode document: %w", err)
	}
	return sb.String(), nil
}
