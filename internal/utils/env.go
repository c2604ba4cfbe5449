package utils

import "os"

// Env returns the value of an environment variable, or def when unset or
// empty. Import executables use it for source-path overrides.
func Env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
