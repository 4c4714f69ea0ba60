// Package stringutil provides the text transforms used when displaying code
// and captions: HTML escaping, slug and title casing, URL-aware truncation,
// widow prevention and lightweight link parsing.
//
// All functions are pure and safe for concurrent use.
package stringutil

import "strings"

// EscapeHTML replaces &, < and > with their named character references.
// The ampersand is replaced first so the references introduced for < and >
// are not escaped again.
//
// EscapeHTML is not idempotent: escaping already escaped text encodes the
// ampersand of every existing reference a second time ("&lt;" becomes
// "&amp;lt;"). Quotes are left untouched, so the result is only safe in
// element content, not in attribute values.
func EscapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	return strings.ReplaceAll(s, ">", "&gt;")
}
