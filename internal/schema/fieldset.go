package schema

import (
	"sort"
	"strings"
)

// FieldSet records the fields that were explicitly present in the input, as
// dotted paths of external names ("item", "item.image.url").
type FieldSet map[string]struct{}

func (fs FieldSet) add(path []string) {
	if len(path) == 0 {
		return
	}
	fs[strings.Join(path, ".")] = struct{}{}
}

// Has reports whether the dotted path was set.
func (fs FieldSet) Has(path string) bool {
	_, ok := fs[path]
	return ok
}

// Sub returns the paths below prefix with the prefix removed.
func (fs FieldSet) Sub(prefix string) FieldSet {
	out := make(FieldSet)
	p := prefix + "."
	for k := range fs {
		if rest, ok := strings.CutPrefix(k, p); ok {
			out[rest] = struct{}{}
		}
	}
	return out
}

// Keys returns the sorted paths.
func (fs FieldSet) Keys() []string {
	keys := make([]string, 0, len(fs))
	for k := range fs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
