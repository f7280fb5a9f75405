package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFollowUpViper(t *testing.T, contents string) *viper.Viper {
	t.Helper()

	dir := t.TempDir()
	if contents != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "followup.yml"), []byte(contents), 0o600))
	}

	v := viper.New()
	v.SetConfigName("followup")
	v.SetConfigType("yml")
	v.AddConfigPath(dir)
	return v
}

func TestLoadFollowUpConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := loadFollowUpConfig(newFollowUpViper(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultFollowUpConfig(), cfg)
}

func TestLoadFollowUpConfigPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := loadFollowUpConfig(newFollowUpViper(t, "followup:\n  upcomingWindowDays: 5\n"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.UpcomingWindowDays)
	assert.Equal(t, DefaultFollowUpConfig().DueGraceDays, cfg.DueGraceDays)
}

func TestLoadFollowUpConfigRejectsInvalidValues(t *testing.T) {
	_, err := loadFollowUpConfig(newFollowUpViper(t, "followup:\n  upcomingWindowDays: -1\n"))
	assert.Error(t, err)
}
