package delivery

import (
	"net/url"
	"strings"

	"decor-funnel/internal/validation"
)

// WhatsAppLink builds a wa.me deep link that opens a chat with number prefilled with text.
// Non-digits in number are dropped.
func WhatsAppLink(number, text string) string {
	link := "https://wa.me/" + validation.Digits(number)
	if text == "" {
		return link
	}
	return link + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
