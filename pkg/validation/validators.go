// Package validation provides format checks for Reddit identifiers used in
// listing requests.
package validation

import "regexp"

var (
	// subredditRegex matches valid subreddit names: 3-21 characters,
	// alphanumeric plus underscore.
	subredditRegex = regexp.MustCompile(`^[a-zA-Z0-9_]{3,21}$`)

	// fullnameRegex matches fullname identifiers: a type prefix t1-t6
	// followed by a base36 ID, e.g. "t3_abc123".
	fullnameRegex = regexp.MustCompile(`^t[1-6]_[0-9a-z]+$`)

	// base36Regex matches bare base36 IDs.
	base36Regex = regexp.MustCompile(`^[0-9a-z]+$`)
)

// IsValidSubreddit reports whether s is a well-formed subreddit name
// (without the "r/" prefix).
func IsValidSubreddit(s string) bool {
	return subredditRegex.MatchString(s)
}

// IsValidFullname reports whether s is a well-formed fullname identifier.
func IsValidFullname(s string) bool {
	return fullnameRegex.MatchString(s)
}

// IsValidBase36 reports whether s is a non-empty base36 ID.
func IsValidBase36(s string) bool {
	return s != "" && base36Regex.MatchString(s)
}

// ClampLimit forces a listing page size into Reddit's accepted 1-100 range.
func ClampLimit(limit int) int {
	if limit > 100 {
		return 100
	}
	if limit < 1 {
		return 1
	}
	return limit
}
