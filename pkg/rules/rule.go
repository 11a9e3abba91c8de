// Package rules implements the pluggable rule engine: a closed set of core
// rules that always run plus profile rule sets layered on by name. Rules
// accumulate issues and never fail fast; a rule that panics is isolated into
// a single synthetic issue so its siblings still run.
package rules

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-schemalint/pkg/schema"
	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// Category separates always-on core rules from profile-scoped ones.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryProfile Category = "profile"
)

// Rule is one validation unit. Implementations are a closed set of concrete
// types in this package; Validate inspects the typed model and resolves lines
// through the side table, most specific path first.
type Rule interface {
	ID() string
	Description() string
	Category() Category
	Severity() validation.Severity
	Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue
}

// Registry holds an ordered list of core rules and ordered per-profile rule
// sets. Build one per validation call; the package-level default registry in
// the root package is convenience only and must not be relied on when
// validations run concurrently.
type Registry struct {
	core     []Rule
	profiles map[string][]Rule
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{profiles: make(map[string][]Rule)}
}

// RegisterCore appends a rule to the always-on set.
func (r *Registry) RegisterCore(rule Rule) {
	r.core = append(r.core, rule)
}

// RegisterProfile appends a rule to the named profile's set.
func (r *Registry) RegisterProfile(profile string, rule Rule) {
	if r.profiles == nil {
		r.profiles = make(map[string][]Rule)
	}
	r.profiles[profile] = append(r.profiles[profile], rule)
}

// CoreRules returns a copy of the registered core rules in order.
func (r *Registry) CoreRules() []Rule {
	return append([]Rule(nil), r.core...)
}

// ProfileRules returns a copy of the named profile's rules in order.
func (r *Registry) ProfileRules(profile string) []Rule {
	return append([]Rule(nil), r.profiles[profile]...)
}

// Profiles lists the profile names known to this registry, sorted.
func (r *Registry) Profiles() []string {
	names := make([]string, 0, len(r.profiles))
	for name := range r.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasProfile reports whether the registry knows the named profile.
func (r *Registry) HasProfile(profile string) bool {
	_, ok := r.profiles[profile]
	return ok
}

// RunCore evaluates every core rule in registration order, accumulating all
// issues.
func (r *Registry) RunCore(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	for _, rule := range r.core {
		issues = append(issues, runIsolated(rule, model, lines)...)
	}
	return issues
}

// RunProfile evaluates the named profile's rules in registration order. An
// unknown profile yields no issues.
func (r *Registry) RunProfile(profile string, model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	for _, rule := range r.profiles[profile] {
		issues = append(issues, runIsolated(rule, model, lines)...)
	}
	return issues
}

// RunAll evaluates core rules followed by the named profile's rules,
// preserving registration order within each group. Pass an empty profile to
// run core rules only.
func (r *Registry) RunAll(model schema.Schema, lines syntax.LineMap, profile string) []validation.Issue {
	issues := r.RunCore(model, lines)
	if profile != "" {
		issues = append(issues, r.RunProfile(profile, model, lines)...)
	}
	return issues
}

// runIsolated shields the engine from a misbehaving rule: a panic during
// Validate is converted into one synthetic issue naming the rule and the
// panic value, and sibling rules keep running.
func runIsolated(rule Rule, model schema.Schema, lines syntax.LineMap) (issues []validation.Issue) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = []validation.Issue{validation.NewError(
				validation.CodeRuleFailure,
				fmt.Sprintf("Rule %s failed: %v", rule.ID(), rec),
			)}
		}
	}()
	return rule.Validate(model, lines)
}

func sortedGroupNames(model schema.Schema) []string {
	names := make([]string, 0, len(model))
	for name := range model {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedFieldNames(fields map[string]schema.Field) []string {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
