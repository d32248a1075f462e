package user

import (
	"regexp"
	"strings"
)

var (
	scriptTag     = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	jsProtocol    = regexp.MustCompile(`(?i)javascript:`)
	inlineHandler = regexp.MustCompile(`(?i)on\w+=`)

	dangerousPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)<script`),
		regexp.MustCompile(`(?i)javascript:`),
		regexp.MustCompile(`(?i)on\w+=`),
		regexp.MustCompile(`(?i)<iframe`),
		regexp.MustCompile(`(?i)<object`),
		regexp.MustCompile(`(?i)<embed`),
		regexp.MustCompile(`(?i)vbscript:`),
		regexp.MustCompile("\x00"),
		regexp.MustCompile(`(?i)union.*select`),
		regexp.MustCompile(`(?i)select.*from`),
		regexp.MustCompile(`(?i)insert.*into`),
		regexp.MustCompile(`(?i)delete.*from`),
		regexp.MustCompile(`(?i)drop.*table`),
	}

	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
	usernamePattern = regexp.MustCompile(`^[a-zA-ZáéíóúÁÉÍÓÚñÑüÜ0-9\s\-_]+$`)
	doubleSpace     = regexp.MustCompile(`\s{2,}`)
)

var reservedUsernames = map[string]bool{
	"admin":         true,
	"administrator": true,
	"root":          true,
	"system":        true,
	"null":          true,
	"undefined":     true,
	"test":          true,
	"demo":          true,
	"example":       true,
	"guest":         true,
	"anonymous":     true,
	"user":          true,
	"default":       true,
}

func sanitize(s string) string {
	s = scriptTag.ReplaceAllString(s, "")
	s = jsProtocol.ReplaceAllString(s, "")
	s = inlineHandler.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func containsDangerousPatterns(s string) bool {
	for _, p := range dangerousPatterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func isReservedUsername(username string) bool {
	return reservedUsernames[strings.ToLower(username)]
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// usernameError returns why username is rejected, or "" when it is acceptable.
func usernameError(username string) string {
	switch {
	case !usernamePattern.MatchString(username):
		return "username may only contain letters, numbers, spaces, hyphens and underscores"
	case containsDangerousPatterns(username):
		return "username contains characters that are not allowed"
	case username != strings.TrimSpace(username):
		return "username cannot start or end with spaces"
	case doubleSpace.MatchString(username):
		return "username cannot contain consecutive spaces"
	case isReservedUsername(username):
		return "username is not allowed"
	}
	return ""
}
