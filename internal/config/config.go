package config

import (
	"os"
	"strconv"
)

const (
	DefaultHost    = "localhost"
	DefaultPort    = 8080
	DefaultPortMax = 65535
	DefaultMPVPath = "mpv"
	DefaultBaseURL = "http://localhost:8080/"
)

type Config struct {
	Host          string
	Port          int
	PortMax       int
	SkipEmptySubs bool
	MPVPath       string
	MPVSocket     string
	BaseURL       string
}

func Load() Config {
	cfg := Config{
		Host:          envVar("MPVSUB_HOST", DefaultHost),
		Port:          envVar("MPVSUB_PORT", DefaultPort),
		PortMax:       envVar("MPVSUB_PORT_MAX", DefaultPortMax),
		SkipEmptySubs: envVar("MPVSUB_SKIP_EMPTY_SUBS", true),
		MPVPath:       envVar("MPVSUB_MPV_PATH", DefaultMPVPath),
		MPVSocket:     envVar("MPVSUB_MPV_SOCKET", ""),
		BaseURL:       envVar("MPVSUB_BASE_URL", DefaultBaseURL),
	}

	// Validate configuration
	cfg.validate()

	return cfg
}

func envVar[T ~string | ~bool | ~int](key string, def T) T {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	switch any(def).(type) {
	case string:
		return any(v).(T)
	case bool:
		if b, err := strconv.ParseBool(v); err == nil {
			return any(b).(T)
		}
	case int:
		if i, err := strconv.Atoi(v); err == nil {
			return any(i).(T)
		}
	}
	return def
}

// validate performs validation on configuration values
func (c *Config) validate() {
	if c.PortMax < 1 || c.PortMax > 65535 {
		c.PortMax = DefaultPortMax
	}
	// Port 0 lets the kernel pick one
	if c.Port < 0 || c.Port > 65535 {
		c.Port = DefaultPort
	}
	if c.PortMax < c.Port {
		c.PortMax = c.Port
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.MPVPath == "" {
		c.MPVPath = DefaultMPVPath
	}
}
