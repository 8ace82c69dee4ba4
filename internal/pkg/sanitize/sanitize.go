package sanitize

import (
	"regexp"
	"strings"
)

// Guests and owners negotiate through the bot until a booking is confirmed,
// so free text is scrubbed of direct contact details before it is stored.
var (
	emailRe     = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	handleRe    = regexp.MustCompile(`@\w{3,}`)
	messengerRe = regexp.MustCompile(`(t\.me/|wa\.me/|viber://|vk\.com/|instagram\.com/)\S+`)
)

// Message masks emails, @handles and messenger links with "***".
func Message(text string) string {
	text = emailRe.ReplaceAllString(text, "***")
	text = handleRe.ReplaceAllString(text, "***")
	text = messengerRe.ReplaceAllString(text, "***")
	return text
}

// Capped scrubs text, trims whitespace and cuts it to max runes.
func Capped(text string, max int) string {
	text = strings.TrimSpace(Message(text))
	runes := []rune(text)
	if len(runes) > max {
		return string(runes[:max])
	}
	return text
}

// CappedOrDefault behaves like Capped but substitutes def when the input is
// blank or equals the keyboard placeholder the transport sends for "no text".
func CappedOrDefault(text string, max int, placeholder, def string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || strings.EqualFold(trimmed, placeholder) {
		return def
	}
	return Capped(trimmed, max)
}
