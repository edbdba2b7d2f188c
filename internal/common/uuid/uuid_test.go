package uuid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewUUIDIsUnique(t *testing.T) {
	gen := New()
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id := gen.NewUUID()
		assert.True(t, IsValid(id))
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-a-uuid"))
	assert.True(t, IsValid("7f1c5f2e-8d4b-4b8e-9a52-4c1a2f0e9b11"))
}
