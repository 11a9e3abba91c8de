// Command schemalint validates structured configuration documents, fixes the
// fixable, renders HTML reports and walks users through creating new ones.
//
// Exit codes: 0 when the document is valid, 1 when validation found errors,
// 2 on runtime failures such as an unreadable file or unknown profile.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	schemalint "github.com/goliatone/go-schemalint"
	"github.com/goliatone/go-schemalint/pkg/fixer"
	"github.com/goliatone/go-schemalint/pkg/output"
	"github.com/goliatone/go-schemalint/pkg/profiles"
	"github.com/goliatone/go-schemalint/pkg/report"
	"github.com/goliatone/go-schemalint/pkg/validation"
	"github.com/goliatone/go-schemalint/pkg/wizard"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("schemalint", flag.ContinueOnError)
	fs.Usage = func() { usage(fs) }

	var (
		profile      = fs.String("profile", "", "validation profile name (e.g. statement_only)")
		format       = fs.String("format", "text", "output format: text or json")
		fix          = fs.Bool("fix", false, "auto-fix issues and write <file>.fixed.yaml")
		fixTabs      = fs.Bool("fix-tabs", false, "replace tabs with spaces in place")
		fixIndent    = fs.Bool("fix-indent", false, "fix tabs and normalize indentation in place")
		reportPath   = fs.String("report", "", "write an HTML report to FILE")
		runWizard    = fs.Bool("wizard", false, "interactive schema creation wizard")
		wizardOut    = fs.String("output", "", "wizard output file (stdout if empty)")
		listRules    = fs.Bool("list-rules", false, "list all validation rules")
		listProfiles = fs.Bool("list-profiles", false, "list available validation profiles")
		quiet        = fs.Bool("quiet", false, "only output on errors")
	)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	color := isatty.IsTerminal(os.Stdout.Fd())
	formatter := output.NewText(os.Stdout, output.WithColor(color))
	store := profiles.NewStore()

	switch {
	case *listProfiles:
		formatter.PrintProfiles(store.Names())
		return 0
	case *listRules:
		formatter.PrintRules(validation.DescribeCodes())
		return 0
	case *runWizard:
		return wizardMain(*profile, *wizardOut)
	}

	path := fs.Arg(0)
	if path == "" {
		usage(fs)
		return 2
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
		return 2
	}
	text := string(data)

	// Text-level fixes run before validation; they operate on syntax alone.
	if *fixTabs || *fixIndent {
		return fixInPlace(path, text, *fixIndent, formatter)
	}

	opts := []schemalint.Option{}
	if *profile != "" {
		opts = append(opts, schemalint.WithProfile(*profile))
	}
	result, err := schemalint.Validate(text, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, schemalint.ErrProfileNotFound) {
			fmt.Fprintf(os.Stderr, "Available profiles: %s\n", strings.Join(store.Names(), ", "))
		}
		return 2
	}

	if *fix {
		return fixIssues(path, text, result, formatter)
	}

	if *reportPath != "" {
		if err := writeReport(*reportPath, path, *profile, text, result); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return 2
		}
		fmt.Printf("Report saved to: %s\n", *reportPath)
	}

	switch *format {
	case "json":
		output.WriteJSON(os.Stdout, result)
	default:
		if !(*quiet && result.Success) {
			formatter.Print(result)
		}
	}

	if result.Success {
		return 0
	}
	return 1
}

func fixInPlace(path, text string, indent bool, formatter *output.TextFormatter) int {
	f := fixer.New()
	var fixed string
	var changes []string
	if indent {
		fixed, changes = f.FixSyntax(text)
	} else {
		fixed, changes = f.FixTabs(text)
	}
	formatter.PrintChanges(changes)
	if len(changes) == 0 {
		return 0
	}
	if err := os.WriteFile(path, []byte(fixed), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		return 2
	}
	fmt.Printf("File updated: %s\n", path)
	return 0
}

func fixIssues(path, text string, result validation.Result, formatter *output.TextFormatter) int {
	f := fixer.New()
	fixResult := f.Fix(text, result.Issues())

	formatter.PrintChanges(fixResult.Changes)
	if len(fixResult.Changes) > 0 {
		fixedPath := fixedFilePath(path)
		if err := os.WriteFile(fixedPath, []byte(fixResult.Fixed), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing fixed file: %v\n", err)
			return 2
		}
		fmt.Printf("Saved to: %s\n", fixedPath)
	}

	if len(fixResult.Unfixable) > 0 {
		fmt.Printf("Remaining issues (%d):\n", len(fixResult.Unfixable))
		for _, issue := range fixResult.Unfixable {
			fmt.Printf("  [%s] %s\n", issue.Code, issue.Message)
		}
		return 1
	}
	return 0
}

func fixedFilePath(path string) string {
	for _, ext := range []string{".yaml", ".yml"} {
		if strings.HasSuffix(path, ext) {
			return strings.TrimSuffix(path, ext) + ".fixed" + ext
		}
	}
	return path + ".fixed.yaml"
}

func writeReport(reportPath, sourcePath, profile, text string, result validation.Result) error {
	gen, err := report.NewGenerator()
	if err != nil {
		return err
	}
	return gen.Save(reportPath, result, report.Meta{
		Filename: sourcePath,
		Profile:  profile,
		Source:   text,
	})
}

func wizardMain(profile, outPath string) int {
	w := wizard.New()
	text, err := w.Run(context.Background(), profile)
	if err != nil {
		if errors.Is(err, wizard.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Aborted.")
			return 2
		}
		fmt.Fprintf(os.Stderr, "Wizard error: %v\n", err)
		return 2
	}
	if outPath == "" {
		fmt.Println(text)
		return 0
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		return 2
	}
	fmt.Printf("Saved to %s\n", outPath)
	return 0
}

func usage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), `Usage: schemalint [flags] <file>

Validate structured configuration documents.

Examples:
  schemalint config.yaml
  schemalint config.yaml -profile statement_only
  schemalint config.yaml -fix
  schemalint config.yaml -report out.html
  schemalint -wizard
  schemalint -list-rules

Flags:
`)
	fs.PrintDefaults()
}
