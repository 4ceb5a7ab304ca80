package utils

import "strings"

// OrDefault returns the trimmed value, or fallback when nothing is left.
func OrDefault(s string, fallback string) string {
	if v := strings.TrimSpace(s); v != "" {
		return v
	}
	return fallback
}
