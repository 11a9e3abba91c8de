package rules

import (
	"fmt"

	"github.com/goliatone/go-schemalint/pkg/schema"
	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// CoreRules returns fresh instances of every core rule in evaluation order.
func CoreRules() []Rule {
	return []Rule{
		GroupPromptInstructionsRule{},
		GroupPromptIgnoredAttrsRule{},
		FieldPromptRequiredRule{},
		FieldIdentifiersRule{},
		FieldTypeRule{},
		FieldRequiredIgnoredRule{},
	}
}

// RegisterCoreRules registers the full core rule set on the registry.
func RegisterCoreRules(r *Registry) {
	for _, rule := range CoreRules() {
		r.RegisterCore(rule)
	}
}

// GroupPromptInstructionsRule requires a non-empty instructions attribute on
// every group prompt that is present.
type GroupPromptInstructionsRule struct{}

func (GroupPromptInstructionsRule) ID() string { return validation.CodeGroupPromptNoInstructions }
func (GroupPromptInstructionsRule) Description() string {
	return "If a group prompt is present it must have non-empty instructions"
}
func (GroupPromptInstructionsRule) Category() Category { return CategoryCore }
func (GroupPromptInstructionsRule) Severity() validation.Severity { return validation.SeverityError }

func (r GroupPromptInstructionsRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	for _, name := range sortedGroupNames(model) {
		group := model[name]
		if group.Prompt == nil || group.Prompt.Instructions != "" {
			continue
		}
		path := []string{name, "prompt", "instructions"}
		issue := validation.NewError(
			r.ID(),
			fmt.Sprintf("Group '%s' has a prompt but missing 'instructions'", name),
		).
			WithPath(path...).
			WithSuggestion(`Add 'instructions: "Your instructions here"' to the prompt`)
		if line, ok := lines.ForPath(path); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	}
	return issues
}

// GroupPromptIgnoredAttrsRule warns once per prompt attribute that carries no
// meaning at group scope.
type GroupPromptIgnoredAttrsRule struct{}

func (GroupPromptIgnoredAttrsRule) ID() string { return validation.CodeGroupPromptIgnoredAttrs }
func (GroupPromptIgnoredAttrsRule) Description() string {
	return "Warn when a group prompt sets attributes that are ignored at group scope"
}
func (GroupPromptIgnoredAttrsRule) Category() Category { return CategoryCore }
func (GroupPromptIgnoredAttrsRule) Severity() validation.Severity { return validation.SeverityWarning }

func (r GroupPromptIgnoredAttrsRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	for _, name := range sortedGroupNames(model) {
		group := model[name]
		if group.Prompt == nil {
			continue
		}
		for _, attr := range group.Prompt.IgnoredGroupAttrs() {
			path := []string{name, "prompt", attr}
			issue := validation.NewWarning(
				r.ID(),
				fmt.Sprintf("Attribute '%s' is ignored for group prompts", attr),
			).
				WithPath(path...).
				WithSuggestion(fmt.Sprintf("Remove '%s' from the group prompt (only 'instructions' is used)", attr))
			if line, ok := lines.ForPath(path); ok {
				issue = issue.WithLine(line)
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

// FieldPromptRequiredRule requires every field to declare a prompt.
type FieldPromptRequiredRule struct{}

func (FieldPromptRequiredRule) ID() string          { return validation.CodeFieldNoPrompt }
func (FieldPromptRequiredRule) Description() string { return "Every field must have a prompt" }
func (FieldPromptRequiredRule) Category() Category { return CategoryCore }
func (FieldPromptRequiredRule) Severity() validation.Severity { return validation.SeverityError }

func (r FieldPromptRequiredRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	forEachField(model, func(group, field string, f schema.Field) {
		if f.Prompt != nil {
			return
		}
		issue := validation.NewError(
			r.ID(),
			fmt.Sprintf("Field '%s' is missing 'prompt'", field),
		).
			WithPath(group, "fields", field, "prompt").
			WithSuggestion("Add 'prompt:' with 'identifiers:' and 'type:'")
		if line, ok := lines.ForPath([]string{group, "fields", field}); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	})
	return issues
}

// FieldIdentifiersRule requires field prompts to list at least one
// identifier. A present-but-empty list gets a distinct code: the loader
// rejects empty lists at construction time, so seeing one here means the
// model was built by hand.
type FieldIdentifiersRule struct{}

func (FieldIdentifiersRule) ID() string { return validation.CodeFieldNoIdentifiers }
func (FieldIdentifiersRule) Description() string {
	return "Field prompts must have identifiers with at least one item"
}
func (FieldIdentifiersRule) Category() Category { return CategoryCore }
func (FieldIdentifiersRule) Severity() validation.Severity { return validation.SeverityError }

func (r FieldIdentifiersRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	forEachField(model, func(group, field string, f schema.Field) {
		if f.Prompt == nil {
			return
		}
		path := []string{group, "fields", field, "prompt", "identifiers"}
		var issue validation.Issue
		switch {
		case f.Prompt.Identifiers == nil:
			issue = validation.NewError(
				r.ID(),
				fmt.Sprintf("Field '%s' is missing 'identifiers'", field),
			).WithSuggestion(`Add 'identifiers: ["identifier1", "identifier2"]'`)
		case len(f.Prompt.Identifiers) == 0:
			issue = validation.NewError(
				validation.CodeFieldEmptyIdentifiers,
				fmt.Sprintf("Field '%s' has empty 'identifiers' list", field),
			).WithSuggestion("Add at least one identifier")
		default:
			return
		}
		issue = issue.WithPath(path...)
		if line, ok := lines.ForPath(path); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	})
	return issues
}

// FieldTypeRule requires field prompts to declare a type.
type FieldTypeRule struct{}

func (FieldTypeRule) ID() string                     { return validation.CodeFieldNoType }
func (FieldTypeRule) Description() string            { return "Field prompts must have a type" }
func (FieldTypeRule) Category() Category { return CategoryCore }
func (FieldTypeRule) Severity() validation.Severity { return validation.SeverityError }

func (r FieldTypeRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	forEachField(model, func(group, field string, f schema.Field) {
		if f.Prompt == nil || f.Prompt.Type != nil {
			return
		}
		path := []string{group, "fields", field, "prompt", "type"}
		issue := validation.NewError(
			r.ID(),
			fmt.Sprintf("Field '%s' is missing 'type'", field),
		).
			WithPath(path...).
			WithSuggestion("Add 'type: str' (or 'int', 'float', 'date', etc.)")
		if line, ok := lines.ForPath(path); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	})
	return issues
}

// FieldRequiredIgnoredRule warns when a field prompt sets 'required', which
// the extraction pipeline never consults.
type FieldRequiredIgnoredRule struct{}

func (FieldRequiredIgnoredRule) ID() string { return validation.CodeFieldRequiredIgnored }
func (FieldRequiredIgnoredRule) Description() string {
	return "Warn when a field prompt sets 'required' (it is ignored)"
}
func (FieldRequiredIgnoredRule) Category() Category { return CategoryCore }
func (FieldRequiredIgnoredRule) Severity() validation.Severity { return validation.SeverityWarning }

func (r FieldRequiredIgnoredRule) Validate(model schema.Schema, lines syntax.LineMap) []validation.Issue {
	var issues []validation.Issue
	forEachField(model, func(group, field string, f schema.Field) {
		if f.Prompt == nil || f.Prompt.Required == nil {
			return
		}
		path := []string{group, "fields", field, "prompt", "required"}
		issue := validation.NewWarning(
			r.ID(),
			fmt.Sprintf("Field '%s' has 'required' set, but it's ignored", field),
		).
			WithPath(path...).
			WithSuggestion("Remove 'required' - field extraction is always attempted")
		if line, ok := lines.ForPath(path); ok {
			issue = issue.WithLine(line)
		}
		issues = append(issues, issue)
	})
	return issues
}

// forEachField visits every field in deterministic group/field order.
func forEachField(model schema.Schema, visit func(group, field string, f schema.Field)) {
	for _, groupName := range sortedGroupNames(model) {
		group := model[groupName]
		for _, fieldName := range sortedFieldNames(group.Fields) {
			visit(groupName, fieldName, group.Fields[fieldName])
		}
	}
}
