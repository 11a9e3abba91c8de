package validation

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity classifies an issue as blocking or advisory. Warnings never affect
// the success of a validation run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is a single diagnostic produced by any phase of the pipeline. Path is
// the ordered list of structural segments (group, "fields", field name, ...)
// pointing at the offending node; Line is the 1-based source line when the
// line map could resolve one, zero otherwise.
type Issue struct {
	Severity   Severity
	Code       string
	Message    string
	Path       []string
	Line       int
	Suggestion string
}

// NewError builds an error-severity issue with the given code and message.
func NewError(code, message string) Issue {
	return Issue{Severity: SeverityError, Code: code, Message: message}
}

// NewWarning builds a warning-severity issue with the given code and message.
func NewWarning(code, message string) Issue {
	return Issue{Severity: SeverityWarning, Code: code, Message: message}
}

// WithPath returns a copy of the issue pointing at the given path segments.
func (i Issue) WithPath(path ...string) Issue {
	i.Path = path
	return i
}

// WithLine returns a copy of the issue carrying a 1-based source line.
func (i Issue) WithLine(line int) Issue {
	i.Line = line
	return i
}

// WithSuggestion returns a copy of the issue carrying a remediation hint.
func (i Issue) WithSuggestion(suggestion string) Issue {
	i.Suggestion = suggestion
	return i
}

// FormatPath renders the structural path in dotted form, or "(root)" for
// document-level issues.
func (i Issue) FormatPath() string {
	if len(i.Path) == 0 {
		return "(root)"
	}
	return strings.Join(i.Path, ".")
}

// String renders the issue as a single human-readable block:
//
//	[GXVAL203] statement.fields.meters (line 4): Field 'meters' is missing 'identifiers'
//	    -> Add 'identifiers: ["identifier1", "identifier2"]'
func (i Issue) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", i.Code, i.FormatPath())
	if i.Line > 0 {
		fmt.Fprintf(&b, " (line %d)", i.Line)
	}
	fmt.Fprintf(&b, ": %s", i.Message)
	if i.Suggestion != "" {
		fmt.Fprintf(&b, "\n    -> %s", i.Suggestion)
	}
	return b.String()
}

// MarshalJSON emits the wire form consumed by front-ends: absent line and
// suggestion serialize as explicit nulls, an empty path as [].
func (i Issue) MarshalJSON() ([]byte, error) {
	type wire struct {
		Severity   Severity `json:"severity"`
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		Path       []string `json:"path"`
		Line       *int     `json:"line"`
		Suggestion *string  `json:"suggestion"`
	}

	w := wire{
		Severity: i.Severity,
		Code:     i.Code,
		Message:  i.Message,
		Path:     i.Path,
	}
	if w.Path == nil {
		w.Path = []string{}
	}
	if i.Line > 0 {
		line := i.Line
		w.Line = &line
	}
	if i.Suggestion != "" {
		suggestion := i.Suggestion
		w.Suggestion = &suggestion
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON.
func (i *Issue) UnmarshalJSON(data []byte) error {
	type wire struct {
		Severity   Severity `json:"severity"`
		Code       string   `json:"code"`
		Message    string   `json:"message"`
		Path       []string `json:"path"`
		Line       *int     `json:"line"`
		Suggestion *string  `json:"suggestion"`
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	i.Severity = w.Severity
	i.Code = w.Code
	i.Message = w.Message
	i.Path = w.Path
	i.Line = 0
	if w.Line != nil {
		i.Line = *w.Line
	}
	i.Suggestion = ""
	if w.Suggestion != nil {
		i.Suggestion = *w.Suggestion
	}
	return nil
}
