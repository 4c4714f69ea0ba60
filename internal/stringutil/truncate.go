package stringutil

// Ellipsis marks truncated text.
const Ellipsis = "…"

// Truncate shortens s to maxLength runes and appends an ellipsis if anything
// was cut. URLs and email addresses are never split: a token that starts
// within the limit is kept whole even when it ends past maxLength.
//
// Each kept token reduces the budget by its end offset in s rather than by
// the runes it added, so plain text after a second token is rarely kept.
//
// An empty string stays empty. A negative maxLength behaves like zero, and a
// zero maxLength reduces any non-empty text to the ellipsis alone, including
// text that opens with a URL.
func Truncate(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength < 0 {
		maxLength = 0
	}

	text := []rune(s)
	scanner := &tokenScanner{text: text}
	consumed := 0
	remaining := maxLength
	for {
		scanner.pos = consumed
		start, end, ok := scanner.next()
		if !ok || start-consumed >= remaining {
			if maxLength > consumed {
				consumed = min(maxLength, len(text))
			}
			break
		}

		// The budget shrinks by the token's end offset, so after a second
		// token it is normally spent.
		remaining -= end
		consumed = end
		if remaining <= 0 {
			break
		}
	}

	if consumed == len(text) {
		return s
	}
	return string(text[:consumed]) + Ellipsis
}
