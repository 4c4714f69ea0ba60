package stringutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// minorWords stay lower case unless they open or close the title.
var minorWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"because": true, "but": true, "by": true, "en": true, "for": true,
	"if": true, "in": true, "neither": true, "nor": true, "of": true,
	"on": true, "only": true, "or": true, "over": true, "per": true,
	"so": true, "some": true, "than": true, "that": true, "the": true,
	"to": true, "up": true, "upon": true, "v": true, "vs": true,
	"versus": true, "via": true, "when": true, "with": true,
	"without": true, "yet": true,
}

// TitleCase turns a slug into a title.
// Example: this_is_something => This Is Something
//
// Underscores become spaces, then every word gets its first letter or digit
// upper cased. Minor words (articles, short conjunctions and prepositions)
// are lower cased unless they start or end the text. Words that already
// carry manual casing ("iPhone", "example.com") and URL schemes ("http:")
// are left as they are.
func TitleCase(slug string) string {
	runes := []rune(strings.ReplaceAll(slug, "_", " "))
	upper := cases.Upper(language.English)

	var b strings.Builder
	b.Grow(len(runes))
	for i := 0; i < len(runes); {
		if isTitleSeparator(runes[i]) {
			b.WriteRune(runes[i])
			i++
			continue
		}

		end := i
		for end < len(runes) && !isTitleSeparator(runes[end]) {
			end++
		}
		word := runes[i:end]

		switch {
		case hasManualCase(word), isSchemeLike(runes, end):
			b.WriteString(string(word))
		case isMinorWord(word) && i != 0 && end != len(runes):
			b.WriteString(strings.ToLower(string(word)))
		default:
			b.WriteString(capitalizeFirst(word, upper))
		}
		i = end
	}
	return b.String()
}

// Slugify turns one or more titles into a slug.
// Example: This Is Something => this-is-something
//
// The titles are joined with a hyphen, every whitespace or underscore rune
// becomes a hyphen and the result is lower cased. Punctuation is kept and
// repeated hyphens are not collapsed: Slugify("a  b") is "a--b".
func Slugify(titles ...string) string {
	joined := strings.Join(titles, "-")
	slug := strings.Map(func(r rune) rune {
		if r == '_' || isSpace(r) {
			return '-'
		}
		return r
	}, joined)
	return strings.ToLower(slug)
}

func isTitleSeparator(r rune) bool {
	return isSpace(r) || r == ':' || r == '-' || r == '–' || r == '—'
}

// hasManualCase reports whether any rune after the first is an ASCII capital
// or a dot followed by another rune.
func hasManualCase(word []rune) bool {
	for i := 1; i < len(word); i++ {
		if word[i] >= 'A' && word[i] <= 'Z' {
			return true
		}
		if word[i] == '.' && i+1 < len(word) {
			return true
		}
	}
	return false
}

// isSchemeLike reports whether the word ending at end is followed by a colon
// that is not itself followed by whitespace.
func isSchemeLike(runes []rune, end int) bool {
	if end >= len(runes) || runes[end] != ':' {
		return false
	}
	return end+1 < len(runes) && !isSpace(runes[end+1])
}

func isMinorWord(word []rune) bool {
	trimmed := strings.TrimFunc(string(word), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return minorWords[strings.ToLower(trimmed)]
}

// capitalizeFirst upper cases the first letter or digit, skipping leading
// punctuation such as quotes.
func capitalizeFirst(word []rune, upper cases.Caser) string {
	for i, r := range word {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return string(word[:i]) + upper.String(string(r)) + string(word[i+1:])
		}
	}
	return string(word)
}
