// Package markup renders the small HTML fragments authored in room content
// (hints, messages) as plain terminal text.
package markup

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Style decorates emphasized runs. A nil Style leaves them plain.
type Style func(s string) string

// ToText renders fragment as plain text.
func ToText(fragment string) string {
	return Render(fragment, nil)
}

// Render renders fragment, passing <b>/<strong>/<em> runs through emph.
// Block elements and <br> become line breaks; all other tags are dropped.
// Control characters never reach the output.
func Render(fragment string, emph Style) string {
	if !strings.ContainsAny(fragment, "<&") {
		return tidy(collapse(fragment))
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return tidy(collapse(fragment))
	}

	var b strings.Builder
	for _, n := range nodes {
		walk(&b, n, emph)
	}
	return tidy(b.String())
}

func walk(b *strings.Builder, n *html.Node, emph Style) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(collapse(n.Data))
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(b, c, emph)
		}
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.Br:
		b.WriteString("\n")
		return
	case atom.B, atom.Strong, atom.Em, atom.I:
		if emph != nil {
			var inner strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(&inner, c, emph)
			}
			b.WriteString(emph(inner.String()))
			return
		}
	case atom.Li:
		b.WriteString("\n• ")
	case atom.P, atom.Div, atom.Ul, atom.Ol, atom.H1, atom.H2, atom.H3, atom.H4:
		b.WriteString("\n")
		defer b.WriteString("\n")
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(b, c, emph)
	}
}

// collapse folds whitespace runs into single spaces and drops control
// characters.
func collapse(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// tidy trims each line and removes blank lines at the edges and repeated
// blank lines in the middle.
func tidy(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := true
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, l)
		blank = false
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
