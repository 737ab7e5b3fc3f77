package domain

import "sort"

// DefaultCategories is the fixed set of poll categories. The registry is
// not user extensible; changing the set is a deploy.
var DefaultCategories = []string{
	"technology",
	"sports",
	"politics",
	"entertainment",
	"science",
	"lifestyle",
}

// CategoryRegistry holds the process-wide category set. It is built once at
// startup and injected wherever categories are validated or listed.
type CategoryRegistry struct {
	sorted []string
	index  map[string]struct{}
}

func NewCategoryRegistry(names []string) *CategoryRegistry {
	r := &CategoryRegistry{
		sorted: make([]string, 0, len(names)),
		index:  make(map[string]struct{}, len(names)),
	}
	for _, name := range names {
		if _, ok := r.index[name]; ok {
			continue
		}
		r.index[name] = struct{}{}
		r.sorted = append(r.sorted, name)
	}
	sort.Strings(r.sorted)
	return r
}

// ListAll returns the category names in sorted, stable order.
func (r *CategoryRegistry) ListAll() []string {
	out := make([]string, len(r.sorted))
	copy(out, r.sorted)
	return out
}

func (r *CategoryRegistry) Exists(name string) bool {
	_, ok := r.index[name]
	return ok
}
