package server

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateNickname(t *testing.T) {
	name := GenerateNickname()
	assert.NotEmpty(t, name)

	// must be adjective + noun from the word lists
	var adj string
	for _, a := range adjectives {
		if strings.HasPrefix(name, a) {
			adj = a
			break
		}
	}
	assert.NotEmpty(t, adj, "unknown adjective in %q", name)
	assert.Contains(t, nouns, strings.TrimPrefix(name, adj))
}
