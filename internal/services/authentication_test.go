package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nftwallet/internal/models"
)

func TestAuthentication(t *testing.T) {
	_, err := NewAuthentication("")
	require.Error(t, err)

	auth, err := NewAuthentication("s3cret")
	require.NoError(t, err)

	token, err := auth.CreateToken(&models.UserFromAuth{ID: "user-1", Username: "alice"}, time.Hour)
	require.NoError(t, err)

	user, err := auth.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice", user.Username)

	other, _ := NewAuthentication("other")
	_, err = other.Validate(token)
	require.Error(t, err)

	expired, err := auth.CreateToken(&models.UserFromAuth{ID: "user-1"}, -time.Minute)
	require.NoError(t, err)
	_, err = auth.Validate(expired)
	require.Error(t, err)
}
