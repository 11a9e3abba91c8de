// Package fixer performs deterministic, line-oriented rewrites for a fixed
// subset of diagnostic codes: tab replacement, indentation normalization and
// removal of semantically inert attributes. Anything ambiguous is reported
// back as unfixable rather than guessed at.
package fixer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/goliatone/go-schemalint/pkg/validation"
)

// fixableCodes names the diagnostics the fixer knows how to resolve.
var fixableCodes = map[string]struct{}{
	validation.CodeTabError:             {},
	validation.CodeIndentError:          {},
	validation.CodeGroupPromptIgnoredAttrs: {},
	validation.CodeFieldRequiredIgnored:    {},
}

// FixableCodes lists the diagnostic codes the fixer can resolve, sorted.
func FixableCodes() []string {
	codes := make([]string, 0, len(fixableCodes))
	for code := range fixableCodes {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Result reports one fixing pass: the rewritten text, a human-readable
// change per rewrite (keyed to original line numbers) and the issues the
// fixer could not resolve.
type Result struct {
	Fixed     string
	Changes   []string
	Unfixable []validation.Issue
}

// Option configures a Fixer.
type Option func(*Fixer)

// WithIndentUnit overrides the indentation unit used by normalization.
// Values below one are ignored.
func WithIndentUnit(unit int) Option {
	return func(f *Fixer) {
		if unit >= 1 {
			f.indentUnit = unit
		}
	}
}

// Fixer applies deterministic text-level rewrites.
type Fixer struct {
	indentUnit int
}

// New builds a Fixer with a two-space indentation unit unless overridden.
func New(options ...Option) *Fixer {
	f := &Fixer{indentUnit: 2}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// FixTabs replaces every tab with two spaces, recording one change per
// modified line. Running it again on its own output yields no changes.
func (f *Fixer) FixTabs(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	var changes []string
	for i, line := range lines {
		if !strings.Contains(line, "\t") {
			continue
		}
		lines[i] = strings.ReplaceAll(line, "\t", "  ")
		changes = append(changes, fmt.Sprintf("Line %d: Replaced tabs with spaces", i+1))
	}
	return strings.Join(lines, "\n"), changes
}

// NormalizeIndent rounds every line's leading-space count to the nearest
// multiple of the indent unit, resolving exact ties to the even multiple
// (so with the default unit of 2, one space drops to zero and three spaces
// become four). Blank lines and comment-only lines pass through verbatim.
// The input must already be tab-free.
func (f *Fixer) NormalizeIndent(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	var changes []string

	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := len(line) - len(trimmed)
		if indent == 0 || indent%f.indentUnit == 0 {
			continue
		}

		normalized := roundToUnit(indent, f.indentUnit)
		lines[i] = strings.Repeat(" ", normalized) + trimmed
		changes = append(changes, fmt.Sprintf(
			"Line %d: Fixed indentation (%d -> %d spaces)", i+1, indent, normalized))
	}

	return strings.Join(lines, "\n"), changes
}

// roundToUnit rounds n to the nearest multiple of unit, with exact halves
// going to the multiple whose level is even.
func roundToUnit(n, unit int) int {
	level := n / unit
	rem := n % unit
	switch {
	case 2*rem > unit:
		level++
	case 2*rem == unit && level%2 == 1:
		level++
	}
	return level * unit
}

// FixSyntax runs the text-level fixes that do not need issue guidance: tabs
// first (every other fix assumes tab-free text), then indentation.
func (f *Fixer) FixSyntax(text string) (string, []string) {
	fixed, changes := f.FixTabs(text)
	fixed, indentChanges := f.NormalizeIndent(fixed)
	return fixed, append(changes, indentChanges...)
}

// Fix composes the full pass: tab fix, indentation normalization, then
// removal of inert attributes flagged by the given issues. Issues the fixer
// does not understand, or whose reported line no longer matches, are returned
// as unfixable.
func (f *Fixer) Fix(text string, issues []validation.Issue) Result {
	fixed, changes := f.FixSyntax(text)

	var deletions []validation.Issue
	var unfixable []validation.Issue

	for _, issue := range issues {
		switch issue.Code {
		case validation.CodeTabError, validation.CodeIndentError:
			// Already covered by the syntax pass above.
		case validation.CodeGroupPromptIgnoredAttrs, validation.CodeFieldRequiredIgnored:
			deletions = append(deletions, issue)
		default:
			unfixable = append(unfixable, issue)
		}
	}

	// Deleting a line shifts every line below it, so deletions within the
	// same pass are applied from the highest line number down; the stale
	// line numbers of the remaining issues then stay accurate.
	sort.SliceStable(deletions, func(i, j int) bool {
		return deletions[i].Line > deletions[j].Line
	})

	for _, issue := range deletions {
		next, change, ok := f.removeAttributeLine(fixed, issue)
		if !ok {
			unfixable = append(unfixable, issue)
			continue
		}
		fixed = next
		changes = append(changes, change)
	}

	return Result{Fixed: fixed, Changes: changes, Unfixable: unfixable}
}

// removeAttributeLine deletes the line carrying a semantically inert
// attribute, provided the issue's final path segment names the attribute and
// the reported line still contains "<attr>:" (optional space before the
// colon). Anything else leaves the document untouched.
func (f *Fixer) removeAttributeLine(text string, issue validation.Issue) (string, string, bool) {
	if len(issue.Path) < 3 || issue.Line <= 0 {
		return text, "", false
	}
	attr := issue.Path[len(issue.Path)-1]

	lines := strings.Split(text, "\n")
	if issue.Line > len(lines) {
		return text, "", false
	}

	pattern := regexp.MustCompile(regexp.QuoteMeta(attr) + `\s?:`)
	if !pattern.MatchString(lines[issue.Line-1]) {
		return text, "", false
	}

	lines = append(lines[:issue.Line-1], lines[issue.Line:]...)
	change := fmt.Sprintf("Line %d: Removed ignored '%s' attribute", issue.Line, attr)
	return strings.Join(lines, "\n"), change, true
}
