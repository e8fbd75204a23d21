package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/restobook/table-reservation/internal/utils"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := utils.HashPassword("front-of-house", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "front-of-house", hash)
	assert.True(t, utils.VerifyPassword(hash, "front-of-house"))
	assert.False(t, utils.VerifyPassword(hash, "back-of-house"))
}

func TestHashPasswordClampsCost(t *testing.T) {
	// An out-of-range BCRYPT_COST must not break staff registration.
	hash, err := utils.HashPassword("pw", bcrypt.MaxCost+1)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
