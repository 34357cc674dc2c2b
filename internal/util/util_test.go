package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.NotEmpty(t, id)
	assert.Len(t, id, 36) // UUID length
	assert.NotEqual(t, id, NewID())
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "0123456789...", Excerpt("0123456789abcdef", 10))
	assert.Equal(t, "a b", Excerpt("a\nb", 10))
}

func TestMaskIdentity(t *testing.T) {
	assert.Equal(t, "****", MaskIdentity("u1"))
	assert.Equal(t, "user****", MaskIdentity("user-12345"))
}
