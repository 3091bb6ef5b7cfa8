package advisory

import (
	"testing"

	"github.com/steadyhq/stride/internal/core/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	t.Run("disabled oracle is unavailable", func(t *testing.T) {
		_, err := NewClient(config.Advisory{Enabled: false})
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("missing API key is unavailable", func(t *testing.T) {
		t.Setenv("STRIDE_TEST_ORACLE_KEY", "")
		_, err := NewClient(config.Advisory{
			Enabled:        true,
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "STRIDE_TEST_ORACLE_KEY",
			TimeoutSeconds: 5,
		})
		require.ErrorIs(t, err, ErrUnavailable)
	})

	t.Run("key present builds a client", func(t *testing.T) {
		t.Setenv("STRIDE_TEST_ORACLE_KEY", "sk-test")
		client, err := NewClient(config.Advisory{
			Enabled:        true,
			Model:          "gpt-4o-mini",
			APIKeyEnv:      "STRIDE_TEST_ORACLE_KEY",
			TimeoutSeconds: 5,
		})
		require.NoError(t, err)
		assert.NotNil(t, client)
	})
}
