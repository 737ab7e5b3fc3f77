package domain

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryRegistryListAllIsSorted(t *testing.T) {
	registry := NewCategoryRegistry([]string{"zeta", "alpha", "mid"})

	names := registry.ListAll()
	assert.True(t, sort.StringsAreSorted(names))
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)

	// Returned slice is a copy; mutating it does not affect the registry.
	names[0] = "mutated"
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, registry.ListAll())
}

func TestCategoryRegistryExists(t *testing.T) {
	registry := NewCategoryRegistry(DefaultCategories)

	assert.True(t, registry.Exists("sports"))
	assert.True(t, registry.Exists("technology"))
	assert.False(t, registry.Exists("gardening"))
	assert.False(t, registry.Exists(""))
}

func TestCategoryRegistryDropsDuplicates(t *testing.T) {
	registry := NewCategoryRegistry([]string{"a", "b", "a"})
	assert.Equal(t, []string{"a", "b"}, registry.ListAll())
}
