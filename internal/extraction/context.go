package extraction

import (
	"strings"
	"unicode/utf8"
)

// contextRadius is how many characters are kept on each side of a token.
const contextRadius = 100

// ExtractContext returns a snippet around the first verbatim occurrence of
// token, or "" when token does not appear in text as given.
func ExtractContext(text, token string) string {
	if token == "" {
		return ""
	}
	idx := strings.Index(text, token)
	if idx == -1 {
		return ""
	}

	runes := []rune(text)
	at := utf8.RuneCountInString(text[:idx])
	start := max(0, at-contextRadius)
	end := min(len(runes), at+utf8.RuneCountInString(token)+contextRadius)

	return "..." + strings.TrimSpace(string(runes[start:end])) + "..."
}
