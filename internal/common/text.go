package common

import (
	"strings"
	"unicode"
)

// ValidText reports whether s can be stored in a delimited record: it must
// not contain the field delimiter or any control character (newlines
// included).
func ValidText(s string) bool {
	if strings.Contains(s, FieldDelimiter) {
		return false
	}
	for _, r := range s {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
