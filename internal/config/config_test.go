package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CARDS_FILE", "GAME_OVER_DELAY", "EXPORT_ENABLED", "EXPORT_FILE", "CORS_ORIGIN"} {
		// Setenv restores the original value on cleanup
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "3000", c.Port)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "", c.CardsFile)
	assert.Equal(t, 8*time.Second, c.GameOverDelay)
	assert.False(t, c.ExportEnabled)
	assert.Equal(t, "./tefuda-results.txt", c.ExportFile)
	assert.Equal(t, "*", c.CORSOrigin)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("GAME_OVER_DELAY", "2s")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("CARDS_FILE", "/tmp/cards.yaml")

	c, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, 2*time.Second, c.GameOverDelay)
	assert.True(t, c.ExportEnabled)
	assert.Equal(t, "/tmp/cards.yaml", c.CardsFile)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("GAME_OVER_DELAY", "soon")
	_, err := FromEnv()
	require.Error(t, err)

	t.Setenv("GAME_OVER_DELAY", "-1s")
	_, err = FromEnv()
	require.Error(t, err)
}
