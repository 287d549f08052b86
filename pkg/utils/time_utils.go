package utils

import "time"

// FormatUnixSeconds renders the int64 timestamps stored on DB rows for
// API responses.
func FormatUnixSeconds(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
