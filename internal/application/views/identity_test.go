package views

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-our-key"))
	require.NoError(t, err)
	return tok
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "alice", DisplayName(sign(t, jwt.MapClaims{"sub": "alice"})))
	assert.Equal(t, "bob", DisplayName(sign(t, jwt.MapClaims{"sub": "7", "username": "bob"})))
	assert.Equal(t, "42", DisplayName(sign(t, jwt.MapClaims{"sub": float64(42)})))
	assert.Empty(t, DisplayName(sign(t, jwt.MapClaims{"role": "admin"})))
}

func TestDisplayName_Opaque(t *testing.T) {
	assert.Empty(t, DisplayName(""))
	assert.Empty(t, DisplayName("t1"))
}
