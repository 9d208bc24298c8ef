package transform

import (
	"regexp"
	"strings"
)

const (
	rsquoEntity  = "&rsquo;"
	referenceTag = "&#"
)

var (
	numericCharRef = regexp.MustCompile(`&#(?:[0-9]{0,5}|[xX][0-9a-fA-F]{1,4});`)
	repeatedSpaces = regexp.MustCompile(` {2,}`)
)

// SanitizeDescription cleans the escaped markup the xml api leaves in descriptions.
//
// The steps are order dependent: references have to become spaces before spaces are
// collapsed, otherwise "a&#10;&#10;b" would keep a double space.
func SanitizeDescription(text string) string {
	text = strings.ReplaceAll(text, rsquoEntity, "'")
	text = numericCharRef.ReplaceAllString(text, " ")
	// unterminated or oversized references
	text = strings.ReplaceAll(text, referenceTag, " ")
	text = repeatedSpaces.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
