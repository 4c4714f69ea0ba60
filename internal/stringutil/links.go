package stringutil

import "regexp"

var linkRegex = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)

// ParseLinks rewrites every [label](target) into <a href="target">label</a>.
//
// Matching is a single non-nested pass: a label ends at the first ']' and a
// target at the first ')'. Neither part is escaped or validated, so the
// caller decides whether the input is trusted markup.
func ParseLinks(s string) string {
	return linkRegex.ReplaceAllString(s, `<a href="${2}">${1}</a>`)
}

// ParseLinksValue applies ParseLinks to strings and returns any other value
// as is.
func ParseLinksValue(v any) any {
	if s, ok := v.(string); ok {
		return ParseLinks(s)
	}
	return v
}

// PlainLinks rewrites every [label](target) into "label (target)" for
// output that cannot carry markup. An empty target leaves the bare label.
func PlainLinks(s string) string {
	return linkRegex.ReplaceAllStringFunc(s, func(m string) string {
		parts := linkRegex.FindStringSubmatch(m)
		if parts[2] == "" {
			return parts[1]
		}
		return parts[1] + " (" + parts[2] + ")"
	})
}
