// Package output renders validation results for terminals and machine
// consumers. It only consumes the pipeline's output types.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/mgutz/ansi"

	"github.com/goliatone/go-schemalint/pkg/validation"
)

var (
	paintPass    = ansi.ColorFunc("green+b")
	paintFail    = ansi.ColorFunc("red+b")
	paintError   = ansi.ColorFunc("red")
	paintWarning = ansi.ColorFunc("yellow")
	paintDim     = ansi.ColorFunc("white+d")
)

// Option configures a text formatter.
type Option func(*TextFormatter)

// WithColor toggles ANSI color output. Off by default so piped output stays
// clean; the CLI switches it on for terminals.
func WithColor(enabled bool) Option {
	return func(f *TextFormatter) { f.color = enabled }
}

// TextFormatter writes human-readable result summaries to a writer.
type TextFormatter struct {
	w     io.Writer
	color bool
}

// NewText builds a formatter over the given writer.
func NewText(w io.Writer, options ...Option) *TextFormatter {
	f := &TextFormatter{w: w}
	for _, opt := range options {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// Print renders the verdict, counts and every issue block.
func (f *TextFormatter) Print(result validation.Result) error {
	if result.Success {
		f.println(f.paint(paintPass, "Validation PASSED"))
	} else {
		f.println(f.paint(paintFail, "Validation FAILED"))
	}
	f.println(f.paint(paintDim, fmt.Sprintf(
		"%d error(s), %d warning(s)\n", result.ErrorCount(), result.WarningCount())))

	if len(result.Errors) > 0 {
		f.println("ERRORS:")
		for _, issue := range result.Errors {
			f.println("  " + f.paint(paintError, issue.String()))
		}
	}
	if len(result.Warnings) > 0 {
		f.println("WARNINGS:")
		for _, issue := range result.Warnings {
			f.println("  " + f.paint(paintWarning, issue.String()))
		}
	}
	return nil
}

// PrintRules lists every known diagnostic code with severity and description.
func (f *TextFormatter) PrintRules(infos []validation.CodeInfo) error {
	f.println("Available validation rules:")
	for _, info := range infos {
		painter := paintError
		if info.Severity == validation.SeverityWarning {
			painter = paintWarning
		}
		f.println(fmt.Sprintf("  %s  %-7s  %s",
			info.Code, f.paint(painter, string(info.Severity)), info.Description))
	}
	return nil
}

// PrintProfiles lists the available profile names.
func (f *TextFormatter) PrintProfiles(names []string) error {
	f.println("Available profiles:")
	for _, name := range names {
		f.println("  - " + name)
	}
	return nil
}

// PrintChanges lists the rewrites an auto-fix pass performed.
func (f *TextFormatter) PrintChanges(changes []string) error {
	if len(changes) == 0 {
		f.println("No auto-fixable issues found.")
		return nil
	}
	f.println(f.paint(paintPass, fmt.Sprintf("Fixed %d issue(s):", len(changes))))
	for _, change := range changes {
		f.println("  " + change)
	}
	return nil
}

func (f *TextFormatter) paint(painter func(string) string, s string) string {
	if !f.color {
		return s
	}
	return painter(s)
}

func (f *TextFormatter) println(s string) {
	fmt.Fprintln(f.w, s)
}

// WriteJSON emits the result in its documented wire form, indented.
func WriteJSON(w io.Writer, result validation.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}
