package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOARD_STORE", "")
	t.Setenv("PITCH_WIDTH", "")
	t.Setenv("MIGRATE_ON_START", "")

	cfg := Load()
	assert.Equal(t, "memory", cfg.BoardStore)
	assert.Equal(t, 500, cfg.PitchWidth)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BOARD_STORE", "redis")
	t.Setenv("PITCH_WIDTH", "640")
	t.Setenv("BOARD_IDLE_MINUTES", "not-a-number")
	t.Setenv("MIGRATE_ON_START", "true")
	t.Setenv("INSTANCE_ID", "node-a")

	cfg := Load()
	assert.Equal(t, "redis", cfg.BoardStore)
	assert.Equal(t, 640, cfg.PitchWidth)
	assert.Equal(t, 60, cfg.BoardIdleMinutes)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, "node-a", cfg.InstanceID)
}
