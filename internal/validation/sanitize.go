// Package validation cleans and checks visitor-supplied form input before anything is
// handed to a delivery provider. Every function is pure.
package validation

import (
	"html"
	"net/url"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

const (
	maxEmailLength   = 254
	minPhoneDigits   = 10
	maxPhoneDigits   = 15
	DefaultMaxLength = 5000

	maxDecodeRounds = 16
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	namePattern  = regexp.MustCompile(`^[a-zA-Z\s'-]{2,100}$`)

	strict = bluemonday.StrictPolicy()
)

// SanitizePlainText removes every tag and attribute and returns the remaining text.
// Entities are decoded so that ordinary punctuation such as apostrophes survives; the
// result is only returned once decoding no longer changes it, so nested entity encodings
// cannot turn back into markup.
func SanitizePlainText(input string) string {
	out := input
	for i := 0; i < maxDecodeRounds; i++ {
		next := html.UnescapeString(strict.Sanitize(out))
		if next == out {
			return out
		}
		out = next
	}
	// still decoding: keep the sanitized, entity-encoded form
	return strict.Sanitize(out)
}

// IsValidEmail reports whether s looks like local@domain.tld and fits in 254 bytes.
func IsValidEmail(s string) bool {
	return len(s) <= maxEmailLength && emailPattern.MatchString(s)
}

// IsValidPhone accepts any formatting as long as it carries 10 to 15 digits.
func IsValidPhone(s string) bool {
	n := len(Digits(s))
	return n >= minPhoneDigits && n <= maxPhoneDigits
}

// Digits returns only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SanitizeName strips markup and surrounding space. The second result is false when the
// input carried markup or the remainder is not 2 to 100 letters, spaces, hyphens or
// apostrophes.
func SanitizeName(s string) (string, bool) {
	if strings.ContainsAny(s, "<>") {
		return "", false
	}
	name := strings.TrimSpace(SanitizePlainText(s))
	if !namePattern.MatchString(name) {
		return "", false
	}
	return name, true
}

// SanitizeMessage strips markup and surrounding space and requires 1 to maxLength
// characters. A maxLength of zero means DefaultMaxLength.
func SanitizeMessage(s string, maxLength int) (string, bool) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	msg := strings.TrimSpace(SanitizePlainText(s))
	n := utf8.RuneCountInString(msg)
	if n == 0 || n > maxLength {
		return "", false
	}
	return msg, true
}

// SanitizeURL returns the normalised URL when it is absolute http or https.
func SanitizeURL(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return u.String(), true
	default:
		return "", false
	}
}

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// EscapeHTML escapes text for display inside markup.
func EscapeHTML(s string) string {
	return htmlEscaper.Replace(s)
}

func isBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
