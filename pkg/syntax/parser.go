// Package syntax turns raw document text into a plain nested structure plus a
// path-to-line side table, classifying syntax-level failures under stable
// diagnostic codes.
package syntax

import (
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemalint/pkg/validation"
)

// ParseResult is the outcome of the syntax phase. On success Data holds the
// plain decoded structure (maps, slices, scalars) and LineMap the path-to-line
// side table; on failure Error carries the single fatal issue.
type ParseResult struct {
	Success bool
	Data    any
	LineMap LineMap
	Error   *validation.Issue
}

// Parse decodes document text with line preservation. Tabs are rejected
// outright before any parsing happens: every other fix and diagnostic assumes
// tab-free text, so the first offending line short-circuits the phase.
func Parse(text string) ParseResult {
	if issue := checkForTabs(text); issue != nil {
		return ParseResult{Error: issue}
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		issue := classifyYAMLError(err)
		return ParseResult{Error: &issue}
	}

	if isEmptyDocument(&root) {
		issue := validation.NewError(
			validation.CodeEmptyDocument,
			"YAML document is empty or contains only comments",
		).WithSuggestion("Add content to the YAML document")
		return ParseResult{Error: &issue}
	}

	lines := make(LineMap)
	buildLineMap(&root, "", lines)

	var plain any
	if err := root.Decode(&plain); err != nil {
		issue := classifyYAMLError(err)
		return ParseResult{Error: &issue}
	}

	return ParseResult{Success: true, Data: plain, LineMap: lines}
}

// checkForTabs scans for the first tab character and reports its position.
func checkForTabs(text string) *validation.Issue {
	for i, line := range strings.Split(text, "\n") {
		if col := strings.IndexByte(line, '\t'); col >= 0 {
			issue := validation.NewError(
				validation.CodeTabError,
				"Tab character found. Use spaces for indentation.",
			).
				WithLine(i + 1).
				WithSuggestion(fmt.Sprintf("Replace tab at column %d with spaces", col+1))
			return &issue
		}
	}
	return nil
}

func isEmptyDocument(root *yaml.Node) bool {
	if root.Kind == 0 || len(root.Content) == 0 {
		return true
	}
	// A document whose only node is an explicit null decodes to nothing.
	top := root.Content[0]
	return top.Kind == yaml.ScalarNode && top.Tag == "!!null"
}

var yamlLinePattern = regexp.MustCompile(`line (\d+):?\s*`)

// classifyYAMLError extracts a line number and message from a yaml.v3 error
// and maps it onto a diagnostic code by matching known message substrings.
func classifyYAMLError(err error) validation.Issue {
	message := strings.TrimPrefix(err.Error(), "yaml: ")

	line := 0
	if m := yamlLinePattern.FindStringSubmatch(message); m != nil {
		fmt.Sscanf(m[1], "%d", &line)
		message = strings.Replace(message, m[0], "", 1)
	}
	message = strings.TrimSpace(message)

	code := validation.CodeParseError
	lowered := strings.ToLower(message)
	switch {
	case strings.Contains(lowered, "indent"):
		code = validation.CodeIndentError
	case strings.Contains(lowered, "mapping"):
		code = validation.CodeMappingError
	}

	issue := validation.NewError(code, message)
	if line > 0 {
		issue = issue.WithLine(line)
	}
	return issue
}
