package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)

	gameID, playerID := uuid.New(), uuid.New()
	token, err := issuer.IssueToken(gameID, playerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := issuer.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, gameID, claims.GameID)
	assert.Equal(t, playerID, claims.PlayerID)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	a, err := NewIssuer("secret-a")
	require.NoError(t, err)
	b, err := NewIssuer("secret-b")
	require.NoError(t, err)

	token, err := a.IssueToken(uuid.New(), uuid.New())
	require.NoError(t, err)

	_, err = b.VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer, err := NewIssuer("test-secret")
	require.NoError(t, err)
	_, err = issuer.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestEmptySecretRejected(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}
