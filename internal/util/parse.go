package util

import (
	"strconv"
	"strings"
)

// ParseInt parses s, returning defaultValue on failure
func ParseInt(s string, defaultValue int) int {
	if val, err := strconv.Atoi(s); err == nil {
		return val
	}
	return defaultValue
}

// SplitEmailList splits a newline-separated email list into trimmed,
// non-empty entries. Used by the bulk-enroll flow.
func SplitEmailList(raw string) []string {
	var emails []string
	for _, line := range strings.Split(raw, "\n") {
		email := strings.TrimSpace(line)
		if email == "" {
			continue
		}
		emails = append(emails, email)
	}
	return emails
}

// LocalPart returns the part of an email address before the @.
// Used to derive a display name for auto-created employees.
func LocalPart(email string) string {
	if i := strings.Index(email, "@"); i > 0 {
		return email[:i]
	}
	return email
}
