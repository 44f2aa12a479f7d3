package application

import "strings"

// NormalizeURL trims s and adds an https:// scheme when none is present.
// Blank input yields nil.
func NormalizeURL(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	lower := strings.ToLower(s)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		s = "https://" + s
	}
	return &s
}
