package logging

import "strings"

func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "rate_limit") || strings.Contains(msg, "429")
}

// IsTokenLimit reports whether a provider error names a context window or
// token limit. Matching is by message text since providers do not share an
// error type.
func IsTokenLimit(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "context window") || strings.Contains(msg, "token")
}
