package utils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var (
	slugInvalid   = regexp.MustCompile(`[^\w\s-]`)
	slugSeparator = regexp.MustCompile(`[-\s]+`)
)

// Slugify converts a display name to a URL-safe slug: accents are folded to ASCII,
// the result is lower-cased, punctuation is dropped and runs of spaces or hyphens
// become a single hyphen. "Tech Store" becomes "tech-store".
func Slugify(value string) string {
	folded := strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, norm.NFKD.String(value))

	folded = slugInvalid.ReplaceAllString(strings.ToLower(folded), "")
	folded = slugSeparator.ReplaceAllString(strings.TrimSpace(folded), "-")
	return strings.Trim(folded, "-_")
}
