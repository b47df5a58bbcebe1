package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"MPVSUB_HOST", "MPVSUB_PORT", "MPVSUB_PORT_MAX", "MPVSUB_SKIP_EMPTY_SUBS", "MPVSUB_MPV_PATH", "MPVSUB_MPV_SOCKET", "MPVSUB_BASE_URL"} {
		t.Setenv(k, "")
	}

	assert.Equal(t, Config{
		Host:          DefaultHost,
		Port:          DefaultPort,
		PortMax:       DefaultPortMax,
		SkipEmptySubs: true,
		MPVPath:       DefaultMPVPath,
		BaseURL:       DefaultBaseURL,
	}, Load())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MPVSUB_HOST", "0.0.0.0")
	t.Setenv("MPVSUB_PORT", "9000")
	t.Setenv("MPVSUB_PORT_MAX", "9010")
	t.Setenv("MPVSUB_SKIP_EMPTY_SUBS", "false")
	t.Setenv("MPVSUB_MPV_SOCKET", "/tmp/mpv.sock")
	t.Setenv("MPVSUB_BASE_URL", "http://10.0.0.2:9000/")

	cfg := Load()
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, 9010, cfg.PortMax)
	assert.False(t, cfg.SkipEmptySubs)
	assert.Equal(t, "/tmp/mpv.sock", cfg.MPVSocket)
	assert.Equal(t, "http://10.0.0.2:9000/", cfg.BaseURL)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("MPVSUB_PORT", "70000")
	t.Setenv("MPVSUB_PORT_MAX", "-1")
	t.Setenv("MPVSUB_SKIP_EMPTY_SUBS", "maybe")

	cfg := Load()
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultPortMax, cfg.PortMax)
	assert.True(t, cfg.SkipEmptySubs)
}
