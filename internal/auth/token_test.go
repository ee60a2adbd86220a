package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tixmojo-server/internal/config"
)

func testConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:             "login-secret",
		AccessTokenSecret:  "access-secret",
		RefreshTokenSecret: "refresh-secret",
	}
}

func TestIssueAndVerify(t *testing.T) {
	m := NewTokenManager(testConfig())

	token, err := m.Issue("user_42", PurposeAccess)
	require.NoError(t, err)

	subject, err := m.Verify(token, PurposeAccess)
	require.NoError(t, err)
	assert.Equal(t, "user_42", subject)
}

func TestVerifyRejectsWrongPurpose(t *testing.T) {
	m := NewTokenManager(testConfig())

	token, err := m.Issue("user_42", PurposeAccess)
	require.NoError(t, err)

	// Refresh uses a different secret, so an access token must not verify.
	_, err = m.Verify(token, PurposeRefresh)
	assert.Error(t, err)
}

func TestPurposeFallsBackToBaseSecret(t *testing.T) {
	m := NewTokenManager(config.JWTConfig{Secret: "only-secret"})

	token, err := m.Issue("user_42", PurposeEmail)
	require.NoError(t, err)

	subject, err := m.Verify(token, PurposeEmail)
	require.NoError(t, err)
	assert.Equal(t, "user_42", subject)
}

func TestIssueWithoutSecrets(t *testing.T) {
	m := NewTokenManager(config.JWTConfig{})

	_, err := m.Issue("user_42", PurposeLogin)
	assert.Error(t, err)
}

func TestVerifyGarbage(t *testing.T) {
	m := NewTokenManager(testConfig())

	_, err := m.Verify("not-a-token", PurposeAccess)
	assert.Error(t, err)
}
