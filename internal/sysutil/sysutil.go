// Package sysutil has process-level helpers shared by the server and
// recipectl: log level selection and lenient parsing of env/flag strings.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets the global zerolog level from a LOG_LEVEL style value
// and returns the level applied. Matching ignores case and surrounding
// space; "warning" is accepted for warn. Empty or unknown values select info.
func SetLogLevel(lvl string) zerolog.Level {
	v := strings.ToLower(strings.TrimSpace(lvl))
	if v == "warning" {
		v = "warn"
	}
	level, err := zerolog.ParseLevel(v)
	if err != nil || v == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return level
}

// IsTruthy reports whether v reads as "on": 1, true, yes, y or on, in any case.
func IsTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}

// FirstNonEmpty returns the first value that is not blank, trimmed.
// Used to pick a recipe owner from the seed entry before the --owner flag.
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
