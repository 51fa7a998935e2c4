package users

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateSet() []User {
	return []User{
		{ID: "1", Email: "a@x.com", Role: RoleStudent},
		{ID: "2", Email: "b@x.com", Role: RoleStudent},
		{ID: "3", Email: "c@x.com", Role: RoleStudent},
	}
}

func TestResolveExactMatch(t *testing.T) {
	u, err := Resolve(candidateSet(), "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, "2", u.ID)
}

func TestResolveNoMatch(t *testing.T) {
	_, err := Resolve(candidateSet(), "z@x.com")
	assert.ErrorIs(t, err, ErrNoStudent)

	_, err = Resolve(candidateSet(), "")
	assert.ErrorIs(t, err, ErrNoStudent)

	_, err = Resolve(nil, "a@x.com")
	assert.ErrorIs(t, err, ErrNoStudent)
}

func TestResolveIsExact(t *testing.T) {
	// no case folding, no trimming
	_, err := Resolve(candidateSet(), "A@x.com")
	assert.ErrorIs(t, err, ErrNoStudent)

	_, err = Resolve(candidateSet(), " a@x.com")
	assert.ErrorIs(t, err, ErrNoStudent)
}

// Manual typing and QR scanning are two front doors to the same lookup; for
// every candidate the results must be identical.
func TestScanMatchesManualForAllCandidates(t *testing.T) {
	set := candidateSet()
	for _, c := range set {
		email := c.Email
		manual, manualErr := Resolve(set, email)
		scanned, scanErr := ResolveScan(set, &email)
		require.NoError(t, manualErr)
		require.NoError(t, scanErr)
		assert.Equal(t, manual, scanned)
	}
}

func TestScanNilPayload(t *testing.T) {
	_, err := ResolveScan(candidateSet(), nil)
	assert.ErrorIs(t, err, ErrNoStudent)
}
