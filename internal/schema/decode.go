package schema

import (
	"fmt"
	"sort"
	"strconv"
)

// ErrorKind distinguishes the shapes of strict-decoding failures so the
// loader can re-phrase each one for end users.
type ErrorKind int

const (
	// ErrUnknown marks an attribute the schema does not recognize.
	ErrUnknown ErrorKind = iota
	// ErrMissing marks a required attribute that was absent.
	ErrMissing
	// ErrType marks a value of the wrong shape (string where list expected...).
	ErrType
	// ErrValue marks a well-typed value rejected by a construction invariant.
	ErrValue
)

// DecodeError locates one strict-decoding failure relative to the group body
// being decoded. Message is only consulted for ErrType and ErrValue kinds.
type DecodeError struct {
	Kind    ErrorKind
	Path    []string
	Message string
}

// DecodeGroup strictly constructs a Group from a plain mapping. Unknown
// attributes are forbidden at every level and an explicitly empty identifiers
// list is rejected here, never silently accepted. All failures are collected;
// the returned group is only meaningful when the error slice is empty.
func DecodeGroup(data map[string]any) (Group, []DecodeError) {
	var group Group
	var errs []DecodeError

	for _, key := range sortedKeys(data) {
		value := data[key]
		switch key {
		case "prompt":
			// An explicit null reads the same as leaving the key out.
			if value == nil {
				continue
			}
			prompt, promptErrs := decodePrompt(value, []string{"prompt"})
			errs = append(errs, promptErrs...)
			group.Prompt = prompt
		case "fields":
			if value == nil {
				continue
			}
			fields, fieldErrs := decodeFields(value)
			errs = append(errs, fieldErrs...)
			group.Fields = fields
		default:
			errs = append(errs, DecodeError{Kind: ErrUnknown, Path: []string{key}})
		}
	}

	return group, errs
}

func decodeFields(value any) (map[string]Field, []DecodeError) {
	entries, ok := asMapping(value)
	if !ok {
		return nil, []DecodeError{{
			Kind:    ErrType,
			Path:    []string{"fields"},
			Message: "Expected a mapping",
		}}
	}

	fields := make(map[string]Field, len(entries))
	var errs []DecodeError

	for _, name := range sortedKeys(entries) {
		body, ok := asMapping(entries[name])
		if !ok {
			errs = append(errs, DecodeError{
				Kind:    ErrType,
				Path:    []string{"fields", name},
				Message: "Expected a mapping",
			})
			continue
		}

		var field Field
		for _, key := range sortedKeys(body) {
			switch key {
			case "prompt":
				if body[key] == nil {
					continue
				}
				prompt, promptErrs := decodePrompt(body[key], []string{"fields", name, "prompt"})
				errs = append(errs, promptErrs...)
				field.Prompt = prompt
			default:
				errs = append(errs, DecodeError{
					Kind: ErrUnknown,
					Path: []string{"fields", name, key},
				})
			}
		}
		fields[name] = field
	}

	return fields, errs
}

func decodePrompt(value any, base []string) (*Prompt, []DecodeError) {
	body, ok := asMapping(value)
	if !ok {
		return nil, []DecodeError{{
			Kind:    ErrType,
			Path:    base,
			Message: "Expected a mapping",
		}}
	}

	prompt := &Prompt{}
	var errs []DecodeError

	fail := func(kind ErrorKind, key, message string) {
		errs = append(errs, DecodeError{
			Kind:    kind,
			Path:    appendPath(base, key),
			Message: message,
		})
	}

	for _, key := range sortedKeys(body) {
		raw := body[key]
		switch key {
		case "identifiers":
			list, ok := raw.([]any)
			if !ok {
				fail(ErrType, key, "Expected a list")
				continue
			}
			if len(list) == 0 {
				fail(ErrValue, key, "identifiers cannot be an empty list")
				continue
			}
			identifiers := make([]string, 0, len(list))
			valid := true
			for i, item := range list {
				s, ok := item.(string)
				if !ok {
					errs = append(errs, DecodeError{
						Kind:    ErrType,
						Path:    appendPath(base, key, strconv.Itoa(i)),
						Message: "Expected a string value",
					})
					valid = false
					continue
				}
				identifiers = append(identifiers, s)
			}
			if valid {
				prompt.Identifiers = identifiers
			}
		case "type":
			types, err := decodeTypeSpec(raw)
			if err != "" {
				fail(ErrValue, key, err)
				continue
			}
			prompt.Type = types
		case "instructions":
			s, ok := raw.(string)
			if !ok {
				fail(ErrType, key, "Expected a string value")
				continue
			}
			prompt.Instructions = s
		case "description":
			assignString(raw, &prompt.Description, func(msg string) { fail(ErrType, key, msg) })
		case "format":
			assignString(raw, &prompt.Format, func(msg string) { fail(ErrType, key, msg) })
		case "attr_name":
			assignString(raw, &prompt.AttrName, func(msg string) { fail(ErrType, key, msg) })
		case "default":
			prompt.Default = raw
		case "required":
			b, ok := raw.(bool)
			if !ok {
				fail(ErrType, key, "Expected a boolean value")
				continue
			}
			prompt.Required = &b
		default:
			errs = append(errs, DecodeError{Kind: ErrUnknown, Path: appendPath(base, key)})
		}
	}

	return prompt, errs
}

// decodeTypeSpec accepts a bare string or a list of strings; anything else is
// rejected with a construction-invariant message.
func decodeTypeSpec(raw any) ([]string, string) {
	switch v := raw.(type) {
	case string:
		return []string{v}, ""
	case []any:
		types := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Sprintf("type must be a string or list of strings, got %s", typeName(item))
			}
			types = append(types, s)
		}
		return types, ""
	default:
		return nil, fmt.Sprintf("type must be a string or list of strings, got %s", typeName(raw))
	}
}

func assignString(raw any, dst **string, fail func(string)) {
	s, ok := raw.(string)
	if !ok {
		fail("Expected a string value")
		return
	}
	*dst = &s
}

// asMapping normalizes the two mapping shapes yaml.v3 can decode into. Keys
// that are not strings are stringified; the loader rejects non-string keys at
// the top level before they reach here.
func asMapping(value any) (map[string]any, bool) {
	switch m := value.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, v := range m {
			out[fmt.Sprint(k)] = v
		}
		return out, true
	default:
		return nil, false
	}
}

// typeName renders the user-facing name of a plain decoded value's type.
func typeName(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64:
		return "integer"
	case float64:
		return "float"
	case []any:
		return "list"
	case map[string]any, map[any]any:
		return "mapping"
	default:
		return fmt.Sprintf("%T", value)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendPath(base []string, extra ...string) []string {
	path := make([]string, 0, len(base)+len(extra))
	path = append(path, base...)
	path = append(path, extra...)
	return path
}
