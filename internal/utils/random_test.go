package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInviteToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateInviteToken()
		assert.NoError(t, err)
		assert.Len(t, token, InviteTokenLength)

		// URL-safe: the token is embedded in an invitation link
		assert.False(t, strings.ContainsAny(token, "+/="))

		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}

func TestGenerateTempUsername(t *testing.T) {
	a, err := GenerateTempUsername()
	assert.NoError(t, err)
	b, err := GenerateTempUsername()
	assert.NoError(t, err)

	assert.Regexp(t, `^temp_[A-Za-z0-9_-]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestGenerateTempPassword(t *testing.T) {
	a, err := GenerateTempPassword()
	assert.NoError(t, err)
	b, err := GenerateTempPassword()
	assert.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
