package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-schemalint/pkg/schema"
	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// TopLevelKeysRule enforces a profile's declarative constraints on the
// document's top-level keys: every required key must be present and no key
// outside the allowed set may appear.
type TopLevelKeysRule struct {
	required map[string]struct{}
	allowed  map[string]struct{}
}

// NewTopLevelKeysRule builds the rule from the profile's key lists. An empty
// allowed list defaults to the required list.
func NewTopLevelKeysRule(required, allowed []string) TopLevelKeysRule {
	if len(allowed) == 0 {
		allowed = required
	}
	return TopLevelKeysRule{
		required: toSet(required),
		allowed:  toSet(allowed),
	}
}

func (r TopLevelKeysRule) ID() string { return validation.CodeProfileInvalidTopLevelKey }
func (r TopLevelKeysRule) Description() string {
	return fmt.Sprintf("Only these top-level keys are allowed: %s", joinSet(r.allowed))
}
func (TopLevelKeysRule) Category() Category { return CategoryProfile }
func (TopLevelKeysRule) Severity() validation.Severity { return validation.SeverityError }

func (r TopLevelKeysRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue

	for _, key := range sortedSet(r.required) {
		if _, ok := model[key]; ok {
			continue
		}
		issues = append(issues, validation.NewError(
			validation.CodeProfileMissingRequiredKey,
			fmt.Sprintf("Required top-level key '%s' is missing", key),
		).WithSuggestion(fmt.Sprintf("Add '%s:' at the top level", key)))
	}

	for _, key := range sortedGroupNames(model) {
		if _, ok := r.allowed[key]; ok {
			continue
		}
		issue := validation.NewError(
			r.ID(),
			fmt.Sprintf("Top-level key '%s' is not allowed", key),
		).
			WithPath(key).
			WithSuggestion(fmt.Sprintf("Remove '%s' - only %s allowed", key, joinSet(r.allowed)))
		if line, ok := lines.ForPath([]string{key}); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	}

	return issues
}

// RequiredFieldsRule enforces that a named group declares every field the
// profile requires. A missing group is not this rule's concern; the top-level
// keys rule reports it.
type RequiredFieldsRule struct {
	group    string
	required map[string]struct{}
}

// NewRequiredFieldsRule builds the rule for one group's required field names.
func NewRequiredFieldsRule(group string, required []string) RequiredFieldsRule {
	return RequiredFieldsRule{group: group, required: toSet(required)}
}

func (r RequiredFieldsRule) ID() string { return validation.CodeProfileMissingRequiredField }
func (r RequiredFieldsRule) Description() string {
	return fmt.Sprintf("Group '%s' must have fields: %s", r.group, joinSet(r.required))
}
func (RequiredFieldsRule) Category() Category { return CategoryProfile }
func (RequiredFieldsRule) Severity() validation.Severity { return validation.SeverityError }

func (r RequiredFieldsRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	group, ok := model[r.group]
	if !ok {
		return nil
	}

	if group.Fields == nil {
		return []validation.Issue{validation.NewError(
			r.ID(),
			fmt.Sprintf("Group '%s' has no fields", r.group),
		).
			WithPath(r.group, "fields").
			WithSuggestion("Add 'fields:' section with the required fields")}
	}

	var issues []validation.Issue
	for _, field := range sortedSet(r.required) {
		if _, ok := group.Fields[field]; ok {
			continue
		}
		issue := validation.NewError(
			r.ID(),
			fmt.Sprintf("Required field '%s' is missing from %s.fields", field, r.group),
		).
			WithPath(r.group, "fields", field).
			WithSuggestion(fmt.Sprintf("Add '%s:' with a prompt containing identifiers and type", field))
		if line, ok := lines.ForPath([]string{r.group, "fields"}); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	}
	return issues
}

// FieldsDictTypeRule re-checks that a group's fields form a mapping. The
// strict loader already guarantees this for any model reaching the engine, so
// the rule exists as a defensive backstop for hand-built models.
type FieldsDictTypeRule struct {
	group string
}

// NewFieldsDictTypeRule builds the defensive fields-shape rule for one group.
func NewFieldsDictTypeRule(group string) FieldsDictTypeRule {
	return FieldsDictTypeRule{group: group}
}

func (r FieldsDictTypeRule) ID() string { return validation.CodeProfileInvalidFieldsType }
func (r FieldsDictTypeRule) Description() string {
	return fmt.Sprintf("%s.fields must be a mapping of field names", r.group)
}
func (FieldsDictTypeRule) Category() Category { return CategoryProfile }
func (FieldsDictTypeRule) Severity() validation.Severity { return validation.SeverityError }

func (r FieldsDictTypeRule) Validate(schema.Schema, syntax.LineMap) []validation.Issue {
	// The typed model's Fields is a map by construction, so a loaded schema
	// can never trip this. Kept so profile listings document the constraint.
	return nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func sortedSet(set map[string]struct{}) []string {
	items := make([]string, 0, len(set))
	for item := range set {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}

func joinSet(set map[string]struct{}) string {
	return strings.Join(sortedSet(set), ", ")
}
