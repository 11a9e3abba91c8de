package schema

// Schema is the fully typed model: group name to group body. It is produced
// once per validation run and treated as immutable afterwards.
type Schema map[string]Group

// Group is a top-level named section. Its prompt, when present, only uses
// instructions; fields map field names to extraction descriptors.
type Group struct {
	Prompt *Prompt
	Fields map[string]Field
}

// Field is a single datum to extract, described entirely by its prompt.
type Field struct {
	Prompt *Prompt
}

// Prompt carries extraction guidance. Nil slices and pointers mean the
// attribute was absent from the source document; a non-nil empty Identifiers
// slice is rejected during decoding and only ever observed on hand-built
// models.
type Prompt struct {
	Identifiers  []string
	Type         []string
	Instructions string
	Description  *string
	Format       *string
	AttrName     *string
	Default      any
	Required     *bool
}

// ignoredGroupAttrs lists prompt attributes that carry no meaning at group
// scope, in reporting order.
var ignoredGroupAttrs = []string{
	"identifiers", "type", "attr_name", "default",
	"description", "format", "required",
}

// IgnoredGroupAttrs returns the names of attributes set on this prompt that
// are semantically inert when the prompt is attached to a group.
func (p *Prompt) IgnoredGroupAttrs() []string {
	var set []string
	for _, attr := range ignoredGroupAttrs {
		if p.hasAttr(attr) {
			set = append(set, attr)
		}
	}
	return set
}

func (p *Prompt) hasAttr(name string) bool {
	switch name {
	case "identifiers":
		return p.Identifiers != nil
	case "type":
		return p.Type != nil
	case "attr_name":
		return p.AttrName != nil
	case "default":
		return p.Default != nil
	case "description":
		return p.Description != nil
	case "format":
		return p.Format != nil
	case "required":
		return p.Required != nil
	}
	return false
}
