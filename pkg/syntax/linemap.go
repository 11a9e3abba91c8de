package syntax

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// LineMap is a side table mapping dotted structural paths to 1-based source
// lines. It is built once while parsing and consulted by every later phase;
// the typed model itself never carries parser metadata.
//
// Mapping keys record the line of the key token ("statement.fields.meters"),
// sequence elements contribute bracket-indexed segments ("tags[0].name").
type LineMap map[string]int

// ForPath resolves a structural path to a source line. It tries the exact
// dotted path first, then progressively drops trailing segments until a
// recorded ancestor matches. Returns false when no prefix is known, so a
// miss never borrows a line from an unrelated sibling.
func (m LineMap) ForPath(path []string) (int, bool) {
	for i := len(path); i > 0; i-- {
		if line, ok := m[strings.Join(path[:i], ".")]; ok {
			return line, true
		}
	}
	return 0, false
}

// buildLineMap walks the decoded node tree recording key lines. Scalars
// terminate recursion; only mappings and sequences contribute structure.
func buildLineMap(node *yaml.Node, prefix string, m LineMap) {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			buildLineMap(child, prefix, m)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			path := key.Value
			if prefix != "" {
				path = prefix + "." + key.Value
			}
			m[path] = key.Line
			if isContainer(value) {
				buildLineMap(value, path, m)
			}
		}
	case yaml.SequenceNode:
		for i, item := range node.Content {
			if isContainer(item) {
				buildLineMap(item, fmt.Sprintf("%s[%d]", prefix, i), m)
			}
		}
	}
}

func isContainer(node *yaml.Node) bool {
	return node.Kind == yaml.MappingNode || node.Kind == yaml.SequenceNode
}
