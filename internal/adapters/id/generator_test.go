package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateRequestID(t *testing.T) {
	g := New()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := g.GenerateRequestID()
		assert.True(t, strings.HasPrefix(id, "req_"), id)
		assert.Len(t, id, len("req_")+21)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}
