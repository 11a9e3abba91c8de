package validation

import "encoding/json"

// Result is the outcome of one validation run. Success is true exactly when
// Errors is empty; warnings never flip it.
type Result struct {
	Success  bool
	Errors   []Issue
	Warnings []Issue
}

// Collect splits a flat issue list by severity and derives the success flag.
func Collect(issues []Issue) Result {
	r := Result{}
	for _, issue := range issues {
		r.Append(issue)
	}
	r.Success = len(r.Errors) == 0
	return r
}

// Append files the issue under the matching severity bucket. Success is not
// recalculated; call Finalize (or build through Collect) once all issues are in.
func (r *Result) Append(issues ...Issue) {
	for _, issue := range issues {
		if issue.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, issue)
		} else {
			r.Errors = append(r.Errors, issue)
		}
	}
}

// Finalize recomputes the success flag from the accumulated errors.
func (r *Result) Finalize() {
	r.Success = len(r.Errors) == 0
}

// ErrorCount reports how many error-severity issues were found.
func (r Result) ErrorCount() int { return len(r.Errors) }

// WarningCount reports how many warning-severity issues were found.
func (r Result) WarningCount() int { return len(r.Warnings) }

// Issues returns errors followed by warnings as a single slice.
func (r Result) Issues() []Issue {
	out := make([]Issue, 0, len(r.Errors)+len(r.Warnings))
	out = append(out, r.Errors...)
	out = append(out, r.Warnings...)
	return out
}

// MarshalJSON emits the documented wire form:
//
//	{success, error_count, warning_count, errors: [...], warnings: [...]}
func (r Result) MarshalJSON() ([]byte, error) {
	type wire struct {
		Success      bool    `json:"success"`
		ErrorCount   int     `json:"error_count"`
		WarningCount int     `json:"warning_count"`
		Errors       []Issue `json:"errors"`
		Warnings     []Issue `json:"warnings"`
	}

	w := wire{
		Success:      r.Success,
		ErrorCount:   len(r.Errors),
		WarningCount: len(r.Warnings),
		Errors:       r.Errors,
		Warnings:     r.Warnings,
	}
	if w.Errors == nil {
		w.Errors = []Issue{}
	}
	if w.Warnings == nil {
		w.Warnings = []Issue{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON accepts the wire form produced by MarshalJSON; the redundant
// count fields are ignored in favour of the slices themselves.
func (r *Result) UnmarshalJSON(data []byte) error {
	type wire struct {
		Success  bool    `json:"success"`
		Errors   []Issue `json:"errors"`
		Warnings []Issue `json:"warnings"`
	}

	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Success = w.Success
	r.Errors = w.Errors
	r.Warnings = w.Warnings
	return nil
}
