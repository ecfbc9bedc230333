package utils

import "strings"

// NilIfBlank returns nil for blank or nil strings and a trimmed copy otherwise.
// Optional fields are stored as nil rather than "".
func NilIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
