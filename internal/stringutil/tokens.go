package stringutil

// Limits of the email-like token grammar.
const (
	maxLocalPart  = 300
	maxDomainPart = 300
)

var urlSchemes = [][]rune{
	[]rune("ftp://"),
	[]rune("http://"),
	[]rune("https://"),
}

var mailtoPrefix = []rune("mailto:")

// tokenScanner finds URL-like and email-like tokens in a rune slice.
//
// Recognized tokens:
//
//	url:   (ftp|http|https):// followed by one or more of [-A-Za-z0-9_@:%+.~#?,&/=]
//	email: [mailto:] 1-300 of [_.A-Za-z0-9-] "@" 1-300 non-newline runes "." 2-3 ASCII letters
//
// The leftmost token wins; at the same position a URL is preferred over an
// email. The domain part of an email is greedy: it extends to the last dot
// followed by at least two letters within reach, so it may swallow text
// after the real domain.
type tokenScanner struct {
	text []rune
	pos  int
}

// next returns the bounds of the leftmost token starting at or after the
// cursor and moves the cursor past it.
func (s *tokenScanner) next() (start, end int, ok bool) {
	for i := s.pos; i < len(s.text); i++ {
		n := s.matchURL(i)
		if n == 0 {
			n = s.matchEmail(i)
		}
		if n > 0 {
			s.pos = i + n
			return i, i + n, true
		}
	}
	s.pos = len(s.text)
	return 0, 0, false
}

// matchURL returns the length of the URL token starting at i, or 0.
func (s *tokenScanner) matchURL(i int) int {
	for _, scheme := range urlSchemes {
		if !s.hasPrefix(i, scheme) {
			continue
		}
		j := i + len(scheme)
		for j < len(s.text) && isURLRune(s.text[j]) {
			j++
		}
		if j > i+len(scheme) {
			return j - i
		}
	}
	return 0
}

// matchEmail returns the length of the email token starting at i, or 0.
func (s *tokenScanner) matchEmail(i int) int {
	if s.hasPrefix(i, mailtoPrefix) {
		if n := s.matchAddress(i + len(mailtoPrefix)); n > 0 {
			return len(mailtoPrefix) + n
		}
	}
	return s.matchAddress(i)
}

func (s *tokenScanner) matchAddress(i int) int {
	at := i
	for at < len(s.text) && isLocalRune(s.text[at]) {
		at++
	}
	local := at - i
	if local == 0 || local > maxLocalPart || at >= len(s.text) || s.text[at] != '@' {
		return 0
	}

	domain := at + 1
	reach := 0
	for reach < maxDomainPart && domain+reach < len(s.text) && !isLineTerminator(s.text[domain+reach]) {
		reach++
	}
	// Prefer the last dot that is followed by at least two letters.
	for k := reach; k >= 1; k-- {
		dot := domain + k
		if dot >= len(s.text) || s.text[dot] != '.' {
			continue
		}
		letters := 0
		for letters < 3 && dot+1+letters < len(s.text) && isASCIILetter(s.text[dot+1+letters]) {
			letters++
		}
		if letters >= 2 {
			return dot + 1 + letters - i
		}
	}
	return 0
}

func (s *tokenScanner) hasPrefix(i int, prefix []rune) bool {
	if len(s.text)-i < len(prefix) {
		return false
	}
	for k, r := range prefix {
		if s.text[i+k] != r {
			return false
		}
	}
	return true
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isWordRune(r rune) bool {
	return isASCIILetter(r) || (r >= '0' && r <= '9') || r == '_'
}

func isURLRune(r rune) bool {
	if isWordRune(r) {
		return true
	}
	switch r {
	case '-', '@', ':', '%', '+', '.', '~', '#', '?', ',', '&', '/', '=':
		return true
	}
	return false
}

func isLocalRune(r rune) bool {
	return isWordRune(r) || r == '.' || r == '-'
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}
