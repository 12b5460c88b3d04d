package evaluation

import "strings"

// NormalizeEmail lower-cases and trims an address for keying.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidLeaderEmail rejects empty values, placeholders and strings missing "@" or ".".
func IsValidLeaderEmail(email string) bool {
	email = strings.TrimSpace(email)
	if IsPlaceholder(email) {
		return false
	}
	return strings.Contains(email, "@") && strings.Contains(email, ".")
}
