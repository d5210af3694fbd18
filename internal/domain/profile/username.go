package profile

import (
	"strings"
	"unicode"
)

// UsernameBase strips all whitespace from the full name and lowercases it:
// "Ada Lovelace" becomes "adalovelace".
func UsernameBase(fullName string) string {
	var b strings.Builder
	for _, r := range fullName {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
