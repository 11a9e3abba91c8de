// Package schemalint validates structured configuration documents against a
// fixed schema and an optional named profile, producing line-accurate,
// stable-coded diagnostics.
//
// The pipeline has four phases: line-preserving parsing, strict typed
// loading, core rule evaluation and optional profile rule evaluation. The
// first two phases are fatal on failure and short-circuit into a single-issue
// result; rule phases accumulate every issue they find.
package schemalint

import (
	"fmt"
	"os"

	"github.com/goliatone/go-schemalint/pkg/profiles"
	"github.com/goliatone/go-schemalint/pkg/rules"
	"github.com/goliatone/go-schemalint/pkg/schema"
	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// Issue is re-exported for callers that only consume pipeline output.
type Issue = validation.Issue

// Result is re-exported for callers that only consume pipeline output.
type Result = validation.Result

// ErrProfileNotFound re-exports the profile store's not-found sentinel.
var ErrProfileNotFound = profiles.ErrNotFound

// Option configures one validation call.
type Option func(*config)

type config struct {
	profile  string
	failFast bool
	registry *rules.Registry
	store    *profiles.Store
}

// WithProfile layers the named profile's rules on top of the core set. An
// unknown name fails the call before any text is parsed.
func WithProfile(name string) Option {
	return func(c *config) { c.profile = name }
}

// WithFailFast stops validation after the core rule phase when it produced
// errors; profile rules are skipped. Phases never short-circuit internally.
func WithFailFast() Option {
	return func(c *config) { c.failFast = true }
}

// WithRegistry supplies a caller-managed rule registry instead of building a
// fresh one. The registry must already contain the rules for any profile the
// call selects; reusing one across concurrent calls is the caller's bargain.
func WithRegistry(reg *rules.Registry) Option {
	return func(c *config) { c.registry = reg }
}

// WithProfileStore overrides where profile names are resolved.
func WithProfileStore(store *profiles.Store) Option {
	return func(c *config) { c.store = store }
}

// Validate runs the full pipeline over document text.
//
// The returned error is reserved for request-level failures such as an
// unknown profile; every document problem is reported through the Result.
func Validate(text string, options ...Option) (validation.Result, error) {
	cfg := config{store: profiles.NewStore()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	// Profile resolution is a pre-flight check: no pipeline work happens
	// for an invalid profile name.
	var profileCfg profiles.Config
	if cfg.profile != "" {
		resolved, err := cfg.store.Resolve(cfg.profile)
		if err != nil {
			return validation.Result{}, err
		}
		profileCfg = resolved
	}

	// Phase 1: parse.
	parsed := syntax.Parse(text)
	if !parsed.Success {
		return validation.Result{Errors: []validation.Issue{*parsed.Error}}, nil
	}

	// Phase 2: load. Any structural problem voids the model.
	model, loadIssues := schema.Load(parsed.Data, parsed.LineMap)
	if len(loadIssues) > 0 {
		return validation.Result{Errors: loadIssues}, nil
	}

	registry := cfg.registry
	if registry == nil {
		registry = rules.NewRegistry()
		rules.RegisterCoreRules(registry)
		if cfg.profile != "" {
			profiles.Register(registry, cfg.profile, profileCfg)
		}
	}

	// Phase 3: core rules.
	var result validation.Result
	result.Append(registry.RunCore(model, parsed.LineMap)...)

	if cfg.failFast && len(result.Errors) > 0 {
		result.Finalize()
		return result, nil
	}

	// Phase 4: profile rules.
	if cfg.profile != "" {
		result.Append(registry.RunProfile(cfg.profile, model, parsed.LineMap)...)
	}

	result.Finalize()
	return result, nil
}

// ValidateFile reads a document from disk and validates it.
func ValidateFile(path string, options ...Option) (validation.Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return validation.Result{}, fmt.Errorf("schemalint: read %s: %w", path, err)
	}
	return Validate(string(data), options...)
}

// QuickValidate reports pass/fail without detailed diagnostics.
func QuickValidate(text string) bool {
	result, err := Validate(text)
	return err == nil && result.Success
}

// DefaultRegistry builds a registry preloaded with the core rule set. It is
// sugar for callers that want to inspect or extend the default rules; the
// authoritative design passes a fresh registry into every call.
func DefaultRegistry() *rules.Registry {
	registry := rules.NewRegistry()
	rules.RegisterCoreRules(registry)
	return registry
}
