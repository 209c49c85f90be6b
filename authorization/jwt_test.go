package authorization

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setSecrets(t *testing.T) {
	t.Helper()
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
}

func TestTokenPairRoundTrip(t *testing.T) {
	setSecrets(t)

	pair, err := GenerateTokenPair("652f8a3b9d1e4c0001a2b3c4")
	require.NoError(t, err)

	claims, err := VerifyAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "652f8a3b9d1e4c0001a2b3c4", claims.ID)

	claims, err = VerifyRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "652f8a3b9d1e4c0001a2b3c4", claims.ID)
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	setSecrets(t)

	pair, err := GenerateTokenPair("652f8a3b9d1e4c0001a2b3c4")
	require.NoError(t, err)

	_, err = VerifyAccessToken(pair.RefreshToken)
	assert.Error(t, err)

	_, err = VerifyRefreshToken(pair.AccessToken)
	assert.Error(t, err)
}

func TestTamperedTokenRejected(t *testing.T) {
	setSecrets(t)

	pair, err := GenerateTokenPair("652f8a3b9d1e4c0001a2b3c4")
	require.NoError(t, err)

	parts := strings.Split(pair.AccessToken, ".")
	require.Len(t, parts, 3)
	tampered := parts[0] + "." + parts[1] + "X." + parts[2]

	_, err = VerifyAccessToken(tampered)
	assert.Error(t, err)
}

func TestGarbageTokenRejected(t *testing.T) {
	setSecrets(t)

	_, err := VerifyAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshTokenNeverSerialized(t *testing.T) {
	// The refresh token only ever travels in the http-only cookie.
	pair := TokenPair{AccessToken: "access-value", RefreshToken: "refresh-value"}
	body, err := json.Marshal(pair)
	require.NoError(t, err)
	assert.Contains(t, string(body), "access-value")
	assert.NotContains(t, string(body), "refresh-value")
}
