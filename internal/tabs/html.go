package tabs

import (
	"fmt"
	"io"
	"strings"

	"github.com/JoobyPM/codetabs/internal/stringutil"
)

// DefaultClassPrefix prefixes every class written by RenderHTML.
const DefaultClassPrefix = "codetabs"

// HTMLOptions configures RenderHTML.
type HTMLOptions struct {
	// ClassName is appended to the root element's classes.
	ClassName string
	// ClassPrefix replaces DefaultClassPrefix when set.
	ClassPrefix string
	// CopyLabel is the copy button text. Defaults to "Copy".
	CopyLabel string
}

// class is a conditional class name.
type class struct {
	name string
	on   bool
}

// when returns a class included only if on is true.
func when(name string, on bool) class {
	return class{name: name, on: on}
}

// classNames joins the non-empty base names and every enabled conditional
// class with single spaces.
func classNames(base []string, conditional ...class) string {
	names := make([]string, 0, len(base)+len(conditional))
	for _, b := range base {
		if b != "" {
			names = append(names, b)
		}
	}
	for _, c := range conditional {
		if c.on && c.name != "" {
			names = append(names, c.name)
		}
	}
	return strings.Join(names, " ")
}

// escapeAttr escapes s for a double-quoted attribute value.
func escapeAttr(s string) string {
	return strings.ReplaceAll(stringutil.EscapeHTML(s), `"`, "&quot;")
}

// RenderHTML writes the markup of s to w: a list of tab buttons followed by
// one block per pane. Code is escaped with stringutil.EscapeHTML and the
// raw text is kept in the copy button's data-clipboard-text attribute.
// Captions are trusted markup: they pass through stringutil.Widont and
// stringutil.ParseLinks without escaping.
func RenderHTML(w io.Writer, s *Set, opts HTMLOptions) error {
	if len(s.Panes) == 0 {
		return ErrNoPanes
	}

	prefix := opts.ClassPrefix
	if prefix == "" {
		prefix = DefaultClassPrefix
	}
	copyLabel := opts.CopyLabel
	if copyLabel == "" {
		copyLabel = "Copy"
	}
	cls := func(suffix string) string { return prefix + "-" + suffix }

	var b strings.Builder
	fmt.Fprintf(&b, "<div class=\"%s\">\n", escapeAttr(classNames([]string{prefix, opts.ClassName})))

	b.WriteString("  <ul role=\"tablist\">\n")
	for _, p := range s.Panes {
		active := s.IsActive(p)
		fmt.Fprintf(&b,
			"    <li><button type=\"button\" role=\"tab\" class=\"%s\" aria-selected=\"%t\" aria-controls=\"%s\">%s</button></li>\n",
			classNames([]string{cls("tab")}, when(cls("active"), active)),
			active,
			escapeAttr(cls(p.ID())),
			stringutil.EscapeHTML(p.Name),
		)
	}
	b.WriteString("  </ul>\n")

	for _, p := range s.Panes {
		active := s.IsActive(p)
		fmt.Fprintf(&b, "  <div id=\"%s\" role=\"tabpanel\" class=\"%s\">\n",
			escapeAttr(cls(p.ID())),
			classNames([]string{cls("code")}, when(cls("active-code"), active)),
		)
		fmt.Fprintf(&b, "    <button type=\"button\" class=\"%s\" data-clipboard-text=\"%s\">%s</button>\n",
			cls("copy"), escapeAttr(p.Content), stringutil.EscapeHTML(copyLabel))

		codeClass := ""
		if p.Language != "" {
			codeClass = fmt.Sprintf(" class=\"language-%s\"", escapeAttr(p.Language))
		}
		fmt.Fprintf(&b, "    <pre class=\"%s\"><code%s>%s</code></pre>\n",
			cls("block"), codeClass, stringutil.EscapeHTML(p.Content))

		if p.Caption != "" {
			fmt.Fprintf(&b, "    <p class=\"%s\">%s</p>\n",
				cls("caption"), stringutil.ParseLinks(stringutil.Widont(p.Caption)))
		}
		b.WriteString("  </div>\n")
	}
	b.WriteString("</div>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}
