// Package env reads raw process environment values that sit outside the
// envconfig-managed configuration, like the log output format.
package env

import "os"

// Get returns the named variable, or fallback when it is unset or empty.
func Get(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}
