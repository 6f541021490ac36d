package adapter

import (
	"net/http"
	"strconv"
	"time"
)

// userAgent identifies the client to boards that reject anonymous requests.
const userAgent = "jobsift/1.0"

// parseRetryAfter parses the Retry-After header value into a duration.
// Supports the seconds format (e.g. "120") and the HTTP-date format.
// Returns zero if absent, unparseable, or already in the past.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(value); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}
