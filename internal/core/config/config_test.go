package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Scheduling.MilestoneGroupSize)
	assert.Equal(t, 3, cfg.Scheduling.ScanWindowDays)
	assert.Equal(t, 2, cfg.Scheduling.CheckInCooldownDays)
	assert.Equal(t, 3, cfg.Scheduling.UrgentAfterDays)
	assert.Equal(t, 2, cfg.Extension.ShortDays)
	assert.Equal(t, 3, cfg.Extension.MediumDays)
	assert.Equal(t, 5, cfg.Extension.LongDays)
	assert.False(t, cfg.Advisory.Enabled)

	require.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("partial file keeps defaults for the rest", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stride.yml")
		body := "scheduling:\n  milestone_group_size: 5\n  scan_window_days: 7\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.Scheduling.MilestoneGroupSize)
		assert.Equal(t, 7, cfg.Scheduling.ScanWindowDays)
		assert.Equal(t, 2, cfg.Scheduling.CheckInCooldownDays)
		assert.Equal(t, 5, cfg.Extension.LongDays)
	})

	t.Run("invalid yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stride.yml")
		require.NoError(t, os.WriteFile(path, []byte("scheduling: ["), 0o644))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stride.yml")
		body := "scheduling:\n  milestone_group_size: 0\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MilestoneGroupSize")
	})

	t.Run("advisory settings parse", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "stride.yml")
		body := "advisory:\n  enabled: true\n  model: gpt-4o\n  timeout_seconds: 5\n"
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.True(t, cfg.Advisory.Enabled)
		assert.Equal(t, "gpt-4o", cfg.Advisory.Model)
		assert.Equal(t, 5, cfg.Advisory.TimeoutSeconds)
	})
}
