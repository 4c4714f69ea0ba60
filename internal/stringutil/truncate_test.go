package stringutil

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		s         string
		maxLength int
		want      string
	}{
		{"empty string", "", 10, ""},
		{"short string", "hello", 100, "hello"},
		{"exact length", "hello", 5, "hello"},
		{"needs truncation", "hello world", 5, "hello…"},
		{"zero length", "hello", 0, "…"},
		{"negative length", "hello", -3, "…"},
		{"zero length leading url", "http://example.com is great", 0, "…"},
		{"unicode", "日本語のテキストです", 3, "日本語…"},
		{"url kept whole", "Visit http://example.com/path for info", 10, "Visit http://example.com/path…"},
		{"url at end not truncated", "Visit http://example.com/path", 10, "Visit http://example.com/path"},
		{"url after limit", "some words then http://example.com", 10, "some words…"},
		{"url starting at limit", "0123456789http://a.io", 10, "0123456789…"},
		{"url starting before limit", "abcdefghi http://x.io tail", 11, "abcdefghi http://x.io…"},
		{"text after url within budget", "http://x.io aaaa bbbb cccc dddd", 20, "http://x.io aaaa bbb…"},
		{"two urls", "a http://x.io b http://y.io cccc", 20, "a http://x.io b http://y.io…"},
		{"text after second url dropped", "http://a.io x http://b.io yyyyyyyyyyyyyyyyyyyy", 30, "http://a.io x http://b.io…"},
		{"second url ends the budget", "intro http://a.io and then http://b.io plus a long tail of words", 40, "intro http://a.io and then http://b.io…"},
		{"third url spends the budget", "http://a.io x http://b.io y http://c.io zzzz", 45, "http://a.io x http://b.io y http://c.io…"},
		{"ftp url", "ftp://files.example.org/a.txt and more", 3, "ftp://files.example.org/a.txt…"},
		{"email kept whole", "mail bob@example.com now please", 8, "mail bob@example.com…"},
		{"mailto kept whole", "mailto:bob@x.io rest", 3, "mailto:bob@x.io…"},
		{"greedy email domain", "write to me@site.org or you@site.net today", 12, "write to me@site.org or you@site.net…"},
		{"scheme is case sensitive", "HTTP://example.com", 4, "HTTP…"},
		{"scheme without body", "ftp:// x", 3, "ftp…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Truncate(tt.s, tt.maxLength)
			assert.Equal(t, tt.want, got, "Truncate(%q, %d)", tt.s, tt.maxLength)
		})
	}
}

func TestTokenScanner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want []string
	}{
		{"none", "no tokens here", nil},
		{"http", "go to http://a.io/x?y=1&z=2 now", []string{"http://a.io/x?y=1&z=2"}},
		{"https", "https://example.com/path#frag", []string{"https://example.com/path#frag"}},
		{"ftp", "ftp://host/file", []string{"ftp://host/file"}},
		{"url stops at space", "http://a.io b", []string{"http://a.io"}},
		{"url stops at paren", "(http://a.io)", []string{"http://a.io"}},
		{"email", "contact jane.doe@mail.example.co.uk.", []string{"jane.doe@mail.example.co.uk"}},
		{"mailto", "mailto:x@y.io", []string{"mailto:x@y.io"}},
		{"email letters capped at three", "a@b.comm", []string{"a@b.com"}},
		{"email needs two letters", "a@b.c", nil},
		{"email stops at newline", "a@b\nc.io", nil},
		{"url and email", "http://a.io and b@c.org", []string{"http://a.io", "b@c.org"}},
		{"url inside word", "xhttp://a.io", []string{"http://a.io"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := &tokenScanner{text: []rune(tt.text)}
			var got []string
			for {
				start, end, ok := s.next()
				if !ok {
					break
				}
				got = append(got, string(s.text[start:end]))
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenScanner_LocalPartLimit(t *testing.T) {
	t.Parallel()

	local := strings.Repeat("a", maxLocalPart+1)
	s := &tokenScanner{text: []rune(local + "@example.com")}

	start, end, ok := s.next()
	assert.True(t, ok)
	assert.Equal(t, 1, start, "leftmost start whose local part fits the limit")
	assert.Equal(t, len(s.text), end)
}

func TestTruncate_PlainTextProperties(t *testing.T) {
	t.Parallel()

	for i, s := range fakeSentences(t, 100) {
		limit := i % 40
		got := Truncate(s, limit)
		n := utf8.RuneCountInString(s)

		if n <= limit {
			assert.Equal(t, s, got)
			continue
		}
		assert.True(t, strings.HasSuffix(got, Ellipsis), "missing ellipsis: %q", got)
		body := strings.TrimSuffix(got, Ellipsis)
		assert.Equal(t, limit, utf8.RuneCountInString(body))
		assert.True(t, strings.HasPrefix(s, body))
	}
}

// fakeSentences returns deterministic sentences without URLs or addresses.
func fakeSentences(t *testing.T, n int) []string {
	t.Helper()

	faker := gofakeit.New(42)
	out := make([]string, n)
	for i := range out {
		out[i] = faker.Sentence(3 + i%12)
	}
	return out
}

func BenchmarkTruncate(b *testing.B) {
	s := "This is a moderately long string with a link to https://example.com/some/path that will be truncated"
	for range b.N {
		_ = Truncate(s, 20)
	}
}

func BenchmarkTruncate_NoTruncation(b *testing.B) {
	s := "short"
	for range b.N {
		_ = Truncate(s, 20)
	}
}

func BenchmarkTruncate_Unicode(b *testing.B) {
	s := "日本語のテキストとメール user@example.jp を含む文字列です"
	for range b.N {
		_ = Truncate(s, 8)
	}
}
