package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math/big"
)

// Token size constants (bytes of entropy before encoding).
const (
	// TokenSize128 provides 128 bits of entropy (22 chars base64url).
	TokenSize128 = 16
	// TokenSize256 provides 256 bits of entropy (43 chars base64url).
	TokenSize256 = 32
)

// InviteCodeAlphabet is the character set for invite codes: unambiguous to
// read aloud over a call, easy to type on a phone.
const InviteCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// InviteCodeLength is the fixed length of generated invite codes.
const InviteCodeLength = 10

// GenerateToken creates a cryptographically secure random token of the
// specified byte length, returned base64url encoded without padding.
func GenerateToken(size int) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("cryptox: token size must be positive, got %d", size)
	}

	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("cryptox: failed to generate random token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateInviteCode draws n characters from InviteCodeAlphabet using the
// system CSPRNG. At length 10 the space is 36^10 (~3.6e15), so collisions
// are a retry condition at the caller, not an expected event.
func GenerateInviteCode(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("cryptox: invite code length must be positive, got %d", n)
	}

	code := make([]byte, n)
	max := big.NewInt(int64(len(InviteCodeAlphabet)))
	for i := range code {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate invite code: %w", err)
		}
		code[i] = InviteCodeAlphabet[idx.Int64()]
	}
	return string(code), nil
}
