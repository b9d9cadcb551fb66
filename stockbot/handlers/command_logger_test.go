package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner(42, 42))
	assert.False(t, IsOwner(42, 43))
	assert.False(t, IsOwner(0, 0), "unset owner must not match")
}
