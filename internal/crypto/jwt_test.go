package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	mgr, err := NewJWTManager("test-secret")
	require.NoError(t, err)

	token, err := mgr.GenerateToken("user-1")
	require.NoError(t, err)

	claims, err := mgr.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
}

func TestJWTManager_RejectsWrongSecret(t *testing.T) {
	a, err := NewJWTManager("secret-a")
	require.NoError(t, err)
	b, err := NewJWTManager("secret-b")
	require.NoError(t, err)

	token, err := a.GenerateToken("user-1")
	require.NoError(t, err)

	_, err = b.VerifyToken(token)
	require.Error(t, err)
}

func TestJWTManager_RejectsGarbage(t *testing.T) {
	mgr, err := NewJWTManager("test-secret")
	require.NoError(t, err)

	_, err = mgr.VerifyToken("not-a-token")
	require.Error(t, err)
}

func TestNewJWTManager_RequiresSecret(t *testing.T) {
	_, err := NewJWTManager("")
	require.Error(t, err)
}
