package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Temporary pepper file so tests never touch a real one
	pepperPath := filepath.Join(os.TempDir(), "setting-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "segredo123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "coração🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)

			// PHC layout with all six parts
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
			parts := strings.Split(hash, "$")
			require.Len(t, parts, 6)
			require.NotEmpty(t, parts[4], "salt should not be empty")
			require.NotEmpty(t, parts[5], "hash should not be empty")
		})
	}
}

func TestHashPasswordUniqueSalts(t *testing.T) {
	h1, err := HashPassword("mesmasenha")
	require.NoError(t, err)
	h2, err := HashPassword("mesmasenha")
	require.NoError(t, err)

	require.NotEqual(t, h1, h2, "hashes should differ due to unique salts")
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret")
	require.NoError(t, err)

	require.NoError(t, VerifyPassword("secret", hash))
	require.ErrorIs(t, VerifyPassword("wrong", hash), ErrPasswordMismatch)
}

func TestVerifyPasswordRejectsMalformedHash(t *testing.T) {
	for _, h := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!$aGFzaA",
	} {
		require.Error(t, VerifyPassword("secret", h))
	}
}

func TestGenerateInviteCode(t *testing.T) {
	code, err := GenerateInviteCode(InviteCodeLength)
	require.NoError(t, err)
	require.Len(t, code, InviteCodeLength)

	for _, c := range code {
		require.Contains(t, InviteCodeAlphabet, string(c))
	}

	other, err := GenerateInviteCode(InviteCodeLength)
	require.NoError(t, err)
	require.NotEqual(t, code, other)
}

func TestGenerateInviteCodeRejectsBadLength(t *testing.T) {
	_, err := GenerateInviteCode(0)
	require.Error(t, err)
}

func TestGenerateToken(t *testing.T) {
	tok, err := GenerateToken(TokenSize256)
	require.NoError(t, err)
	require.Len(t, tok, 43) // 32 bytes base64url without padding

	_, err = GenerateToken(-1)
	require.Error(t, err)
}
