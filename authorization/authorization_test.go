package authorization

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

func TestMain(m *testing.M) {
	os.Setenv("SECRET_KEY", "test-secret")
	os.Exit(m.Run())
}

func TestTokenRoundTrip(t *testing.T) {
	issued := domain.Principal{
		UserID:   "65a1b2c3d4e5f60718293a4b",
		Username: "alice",
		UserType: domain.Admin,
	}

	token, err := GenerateToken(issued)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	principal, err := VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, issued, principal)
	assert.True(t, principal.IsAdmin())
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	token, err := GenerateToken(domain.Principal{Username: "alice", UserType: domain.RegularUser})
	require.NoError(t, err)

	_, err = VerifyToken(token + "x")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = VerifyToken("not-a-token")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}
