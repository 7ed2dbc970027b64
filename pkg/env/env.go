package env

import "os"

// Get reads an environment variable, returning fallback when it is unset or
// empty. Config proper goes through envconfig; this exists for the handful of
// reads that happen before config is loaded, like the logger bootstrap.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
