package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKey    = "test-signing-key"
	testIssuer = "discipline-test"
)

func TestIssueParseRoundTrip(t *testing.T) {
	token, exp, err := Issue("u-1", "a@x.com", "STUDENT", testIssuer, testKey, time.Hour)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := Parse(token, testKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.ID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "STUDENT", claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	token, _, err := Issue("u-1", "a@x.com", "ADMIN", testIssuer, testKey, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, "other-key", testIssuer)
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	token, _, err := Issue("u-1", "a@x.com", "ADMIN", testIssuer, testKey, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(token, testKey, testIssuer)
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	token, _, err := Issue("u-1", "a@x.com", "ADMIN", "someone-else", testKey, time.Hour)
	require.NoError(t, err)

	_, err = Parse(token, testKey, testIssuer)
	assert.Error(t, err)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not-a-token", testKey, testIssuer)
	assert.Error(t, err)
}
