// Package config provides configuration helpers for go-avatar commands.
package config

import (
	"os"
	"strconv"
	"time"
)

// Default server configuration.
const (
	DefaultListenAddr = ":8800"
	DefaultTickRate   = 33 * time.Millisecond // 30Hz
	DefaultLogLevel   = "info"
)

// ListenAddr returns the server listen address from AVATAR_ADDR env var.
// Falls back to the default if not set.
func ListenAddr() string {
	if addr := os.Getenv("AVATAR_ADDR"); addr != "" {
		return addr
	}
	return DefaultListenAddr
}

// TickRate returns the animation tick interval from AVATAR_TICK_HZ env var.
// Falls back to 30Hz if not set or invalid.
func TickRate() time.Duration {
	if hz := os.Getenv("AVATAR_TICK_HZ"); hz != "" {
		if v, err := strconv.ParseFloat(hz, 64); err == nil && v > 0 {
			return time.Duration(float64(time.Second) / v)
		}
	}
	return DefaultTickRate
}

// LogLevel returns the log level from AVATAR_LOG_LEVEL env var.
func LogLevel() string {
	if lvl := os.Getenv("AVATAR_LOG_LEVEL"); lvl != "" {
		return lvl
	}
	return DefaultLogLevel
}

// ClipDir returns an optional directory of custom animation clips
// from AVATAR_CLIP_DIR. Empty means built-ins only.
func ClipDir() string {
	return os.Getenv("AVATAR_CLIP_DIR")
}

// RandomSeed returns the sampler seed from AVATAR_SEED, or 0 for
// time-based seeding.
func RandomSeed() uint64 {
	if s := os.Getenv("AVATAR_SEED"); s != "" {
		if v, err := strconv.ParseUint(s, 10, 64); err == nil {
			return v
		}
	}
	return 0
}
