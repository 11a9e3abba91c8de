// Package schema holds the typed document model and the strict loader that
// produces it from plain parsed data. Loading is all-or-nothing: any
// structural or typing problem anywhere voids the model, because every rule
// downstream assumes full type-correctness.
package schema

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// Load converts the parser's plain structure into a typed Schema, collecting
// one issue per structural problem with a resolved path and line. When any
// issue is found the model is nil; rules never see a partially typed schema.
func Load(data any, lines syntax.LineMap) (Schema, []validation.Issue) {
	entries, ok := topLevelEntries(data)
	if !ok {
		issue := validation.NewError(
			validation.CodeStructureError,
			fmt.Sprintf("Top-level must be a mapping, got %s", typeName(data)),
		).WithSuggestion("YAML should start with group names like 'statement:'")
		return nil, []validation.Issue{issue}
	}

	if len(entries) == 0 {
		issue := validation.NewError(
			validation.CodeStructureError,
			"YAML contains no groups",
		).WithSuggestion("Add at least one group, e.g. 'statement:'")
		return nil, []validation.Issue{issue}
	}

	model := make(Schema, len(entries))
	var issues []validation.Issue

	for _, entry := range entries {
		name, ok := entry.key.(string)
		if !ok {
			issues = append(issues, validation.NewError(
				validation.CodeStructureError,
				fmt.Sprintf("Group name must be a string, got %s", typeName(entry.key)),
			).WithPath(fmt.Sprint(entry.key)))
			continue
		}

		body, ok := asMapping(entry.value)
		if !ok {
			issue := validation.NewError(
				validation.CodeStructureError,
				fmt.Sprintf("Group '%s' must be a mapping", name),
			).
				WithPath(name).
				WithSuggestion(fmt.Sprintf("Define '%s' as a mapping with 'fields:' and optionally 'prompt:'", name))
			if line, ok := lines.ForPath([]string{name}); ok {
				issue = issue.WithLine(line)
			}
			issues = append(issues, issue)
			continue
		}

		group, errs := DecodeGroup(body)
		for _, e := range errs {
			issues = append(issues, issueFromDecodeError(name, e, lines))
		}
		model[name] = group
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return model, nil
}

// issueFromDecodeError re-phrases a strict-decoding failure by kind and
// attributes it to the most specific line the side table knows about.
func issueFromDecodeError(group string, e DecodeError, lines syntax.LineMap) validation.Issue {
	path := append([]string{group}, e.Path...)

	var message string
	switch e.Kind {
	case ErrUnknown:
		message = fmt.Sprintf("Unknown field '%s' is not allowed", lastSegment(path))
	case ErrMissing:
		message = fmt.Sprintf("Required field '%s' is missing", lastSegment(path))
	default:
		message = e.Message
		if message == "" {
			message = "Validation error"
		}
	}

	issue := validation.NewError(validation.CodeLoadError, message).WithPath(path...)
	if line, ok := lines.ForPath(path); ok {
		issue = issue.WithLine(line)
	}
	return issue
}

func lastSegment(path []string) string {
	if len(path) == 0 {
		return "unknown"
	}
	return path[len(path)-1]
}

type entry struct {
	key   any
	value any
}

// topLevelEntries flattens either mapping shape into key/value pairs ordered
// by stringified key, so diagnostics are deterministic across runs.
func topLevelEntries(data any) ([]entry, bool) {
	var entries []entry
	switch m := data.(type) {
	case map[string]any:
		for k, v := range m {
			entries = append(entries, entry{key: k, value: v})
		}
	case map[any]any:
		for k, v := range m {
			entries = append(entries, entry{key: k, value: v})
		}
	default:
		return nil, false
	}
	sort.Slice(entries, func(i, j int) bool {
		return fmt.Sprint(entries[i].key) < fmt.Sprint(entries[j].key)
	})
	return entries, true
}
