package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDIsOrderedAndParsable(t *testing.T) {
	first := NewULID()
	second := NewULID()

	assert.Len(t, first, 26)
	assert.Less(t, first, second)

	_, err := ParseULID(first)
	require.NoError(t, err)
}

func TestNewID(t *testing.T) {
	id := NewID()
	assert.True(t, IsValidID(id))
	assert.False(t, IsValidID("not-a-uuid"))
}
