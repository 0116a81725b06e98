package format

import (
	"strings"

	"hnreader/pkg/htmlutil"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Text converts the html hacker news uses for comments and story text into
// wrapped terminal text, indented by level. Paragraphs become blank lines,
// links are dimmed and <i> is italic.
func (p Printer) Text(content string, level int) string {
	nodes, err := html.ParseFragment(strings.NewReader(content), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return indent(content, level)
	}

	var b strings.Builder
	for _, n := range nodes {
		p.writeNode(&b, n)
	}

	width := max(lineWidth-2*level, 20)
	wrapped := ansi.Wordwrap(strings.TrimSpace(b.String()), width, "")
	return indent(wrapped, level)
}

func (p Printer) writeNode(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.P:
		b.WriteString("\n\n")
	case atom.Br:
		b.WriteString("\n")
		return
	case atom.A:
		b.WriteString(p.dim.Render(htmlutil.GetText(n)))
		return
	case atom.I, atom.Em:
		b.WriteString(p.italic.Render(htmlutil.GetText(n)))
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		p.writeNode(b, c)
	}
}
