package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// InviteTokenLength is the number of characters in an invitation token.
// The token is a bearer secret; 32 url-safe characters carry 192 bits of
// randomness, so accidental collisions are negligible (the storage layer
// still enforces uniqueness and callers re-roll on a violation).
const InviteTokenLength = 32

// GenerateInviteToken returns a URL-safe random token of InviteTokenLength
// characters. base64url encodes 3 bytes into 4 characters, so 24 random
// bytes yield exactly 32 characters with no padding.
func GenerateInviteToken() (string, error) {
	b := make([]byte, InviteTokenLength/4*3)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateTempUsername returns a placeholder username of the form
// temp_<8 url-safe chars> for accounts invited by bare email address.
// The invitee picks a real username on acceptance.
func GenerateTempUsername() (string, error) {
	b := make([]byte, 6) // 6 bytes encode to exactly 8 characters
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "temp_" + base64.RawURLEncoding.EncodeToString(b), nil
}

// GenerateTempPassword returns a random throwaway password for accounts
// created ahead of invitation acceptance. The account cannot be logged
// into until the invitee sets a real password.
func GenerateTempPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
