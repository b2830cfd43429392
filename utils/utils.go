package utils

import "regexp"

// EscapeRegex neutralizes user search input before it goes into a $regex
// query, so "+971" matches literally instead of blowing up the matcher.
func EscapeRegex(s string) string {
	return regexp.QuoteMeta(s)
}
