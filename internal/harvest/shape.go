package harvest

import (
	"fmt"
	"sort"
	"strings"
)

// Kind is the top level kind of a decoded document.
type Kind int

const (
	// Scalar is anything which is neither a mapping nor a sequence, null included.
	Scalar Kind = iota
	// Mapping is a JSON object.
	Mapping
	// Sequence is a JSON array.
	Sequence
)

func (k Kind) String() string {
	switch k {
	case Mapping:
		return "mapping"
	case Sequence:
		return "sequence"
	default:
		return "scalar"
	}
}

// KindOf returns the kind of doc.
func KindOf(doc any) Kind {
	switch doc.(type) {
	case map[string]any:
		return Mapping
	case []any:
		return Sequence
	default:
		return Scalar
	}
}

// Harvestable reports whether doc is a mapping or a sequence made only of mappings.
func Harvestable(doc any) bool {
	switch d := doc.(type) {
	case map[string]any:
		return true
	case []any:
		for _, e := range d {
			if KindOf(e) != Mapping {
				return false
			}
		}
		return true
	default:
		return false
	}
}

const maxShapeKeys = 10

// Shape returns a short human readable description of the top level of doc.
func Shape(doc any) string {
	switch d := doc.(type) {
	case map[string]any:
		return fmt.Sprintf("mapping with %d keys %s", len(d), firstKeys(d))
	case []any:
		s := fmt.Sprintf("sequence with %d items", len(d))
		if len(d) == 0 {
			return s
		}
		if m, ok := d[0].(map[string]any); ok {
			return fmt.Sprintf("%s, first item keys %s", s, firstKeys(m))
		}
		return fmt.Sprintf("%s, first item is a %T", s, d[0])
	case nil:
		return "null"
	default:
		return fmt.Sprintf("scalar of type %T", d)
	}
}

// firstKeys returns the first sorted keys of m.
func firstKeys(m map[string]any) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > maxShapeKeys {
		keys = append(keys[:maxShapeKeys], "...")
	}
	return "[" + strings.Join(keys, ", ") + "]"
}
