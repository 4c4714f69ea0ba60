package stringutil

import "strings"

// Typographic joiners.
const (
	NoBreakSpace  = '\u00a0'
	NoBreakHyphen = '\u2011'
)

// Widont keeps the last two words of s on the same line.
//
// The whitespace run between the last two words is replaced with a single
// no-break space. When the last word contains a hyphen, the separator
// becomes a plain space instead and every hyphen of that word is replaced
// with a no-break hyphen. Whitespace trailing the last word is dropped.
// Text with fewer than two words is returned unchanged. Whitespace is the
// set isSpace accepts.
func Widont(s string) string {
	runes := []rune(s)

	end := len(runes)
	for end > 0 && isSpace(runes[end-1]) {
		end--
	}
	wordStart := end
	for wordStart > 0 && !isSpace(runes[wordStart-1]) {
		wordStart--
	}
	sepStart := wordStart
	for sepStart > 0 && isSpace(runes[sepStart-1]) {
		sepStart--
	}
	if wordStart == end || sepStart == wordStart || sepStart == 0 {
		return s
	}

	word := string(runes[wordStart:end])
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(string(runes[:sepStart]))
	if strings.ContainsRune(word, '-') {
		b.WriteByte(' ')
		b.WriteString(strings.ReplaceAll(word, "-", string(NoBreakHyphen)))
		return b.String()
	}
	b.WriteRune(NoBreakSpace)
	b.WriteString(word)
	return b.String()
}

// isSpace matches the whitespace class of browser regular expressions:
// the Unicode space separators, the ASCII controls \t to \r, the line and
// paragraph separators and U+FEFF. U+0085 is not whitespace here.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', '\u00a0', '\u1680',
		'\u2028', '\u2029', '\u202f', '\u205f', '\u3000', '\ufeff':
		return true
	}
	return r >= '\u2000' && r <= '\u200a'
}

// WidontValue applies Widont to strings and returns any other value as is.
func WidontValue(v any) any {
	if s, ok := v.(string); ok {
		return Widont(s)
	}
	return v
}
