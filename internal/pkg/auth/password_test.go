package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	assert.True(t, CheckPassword(hash, "Secret123!"))
	assert.False(t, CheckPassword(hash, "secret123!"))

	// Moodle's PHP password_hash writes the $2y$ variant
	phpHash := "$2y$" + strings.TrimPrefix(hash, hash[:4])
	assert.True(t, CheckPassword(phpHash, "Secret123!"))
}

func TestCheckPassword_UnsupportedHash(t *testing.T) {
	assert.False(t, CheckPassword("$6$rounds=10000$salt$abcdef", "anything"))
	assert.False(t, CheckPassword("5f4dcc3b5aa765d61d8327deb882cf99", "password"))
	assert.False(t, IsBcryptHash(""))
}
