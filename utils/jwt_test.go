package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecisionToken(t *testing.T) {
	const secret = "test-secret"

	t.Run("round trip", func(t *testing.T) {
		token, err := SignDecisionToken(secret, "bk-1", "approved", time.Hour)
		require.NoError(t, err)
		assert.NoError(t, VerifyDecisionToken(secret, token, "bk-1", "approved"))
	})

	t.Run("bound to the booking", func(t *testing.T) {
		token, err := SignDecisionToken(secret, "bk-1", "approved", time.Hour)
		require.NoError(t, err)
		assert.Error(t, VerifyDecisionToken(secret, token, "bk-2", "approved"))
	})

	t.Run("bound to the action", func(t *testing.T) {
		token, err := SignDecisionToken(secret, "bk-1", "approved", time.Hour)
		require.NoError(t, err)
		assert.Error(t, VerifyDecisionToken(secret, token, "bk-1", "rejected"))
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := SignDecisionToken(secret, "bk-1", "approved", time.Hour)
		require.NoError(t, err)
		assert.Error(t, VerifyDecisionToken("other-secret", token, "bk-1", "approved"))
	})

	t.Run("expired", func(t *testing.T) {
		token, err := SignDecisionToken(secret, "bk-1", "approved", -time.Minute)
		require.NoError(t, err)
		assert.Error(t, VerifyDecisionToken(secret, token, "bk-1", "approved"))
	})

	t.Run("garbage input", func(t *testing.T) {
		assert.Error(t, VerifyDecisionToken(secret, "not-a-token", "bk-1", "approved"))
	})
}
