// Package schema re-exports the typed document model and strict loader so
// consumers never import internal packages directly.
package schema

import (
	internalschema "github.com/goliatone/go-schemalint/internal/schema"

	"github.com/goliatone/go-schemalint/pkg/syntax"
	"github.com/goliatone/go-schemalint/pkg/validation"
)

// Schema re-exports the internal typed model: group name to group body.
type Schema = internalschema.Schema

// Group re-exports the internal group body.
type Group = internalschema.Group

// Field re-exports the internal field descriptor.
type Field = internalschema.Field

// Prompt re-exports the internal prompt attributes.
type Prompt = internalschema.Prompt

// Load converts plain parsed data into a typed Schema. See the internal
// loader for the all-or-nothing contract.
func Load(data any, lines syntax.LineMap) (Schema, []validation.Issue) {
	return internalschema.Load(data, lines)
}
