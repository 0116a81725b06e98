// Package format renders hacker news content for the terminal.
package format

import (
	"fmt"
	"strings"

	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/thread"

	"github.com/charmbracelet/lipgloss"
)

const lineWidth = 80

// Printer holds the styles of a renderer, a renderer writing to something that
// is not a terminal produces plain text.
type Printer struct {
	title  lipgloss.Style
	dim    lipgloss.Style
	meta   lipgloss.Style
	italic lipgloss.Style
}

func NewPrinter(r *lipgloss.Renderer) Printer {
	return Printer{
		title:  r.NewStyle().Bold(true),
		dim:    r.NewStyle().Faint(true),
		meta:   r.NewStyle().Faint(true).Italic(true),
		italic: r.NewStyle().Italic(true),
	}
}

func indent(text string, level int) string {
	if level <= 0 {
		return text
	}
	prefix := strings.Repeat("  ", level)
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func orZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func (p Printer) secondLine(s hackernews.Story) string {
	by := ""
	if s.User != "" {
		by = " by " + s.User
	}
	return p.meta.Render(fmt.Sprintf(
		"%d points%s %s | %d comments",
		orZero(s.Score),
		by,
		s.DateDisplayed,
		orZero(s.CommentCount),
	))
}

// Story renders a story as two lines, prefixed by its rank.
func (p Printer) Story(rank int, s hackernews.Story) string {
	site := ""
	if s.UrlDisplayed != "" {
		site = " " + p.dim.Render("("+s.UrlDisplayed+")")
	}
	return fmt.Sprintf(
		"%2d. ▲ %s%s\n      %s",
		rank,
		p.title.Render(s.Title),
		site,
		p.secondLine(s),
	)
}

func (p Printer) StoryDetails(d *hackernews.StoryWithDetails) string {
	var b strings.Builder
	fmt.Fprintf(&b, "▲ %s\n  %s\n  ↳ %s", p.title.Render(d.Story.Title), p.secondLine(d.Story), d.Story.Url)
	if d.HtmlContent != "" {
		b.WriteString("\n\n")
		b.WriteString(p.Text(d.HtmlContent, 0))
	}
	return b.String()
}

// Comment renders a comment header and body, indented by level.
func (p Printer) Comment(c hackernews.Comment, level int) string {
	header := p.meta.Render(c.User + " " + c.DateDisplayed)
	return indent(header, level) + "\n" + p.Text(c.HtmlContent, level)
}

// Thread renders every comment of the trees in reading order, separated by
// blank lines.
func (p Printer) Thread(roots []*thread.Node[hackernews.Comment]) string {
	var b strings.Builder
	for depth, node := range thread.Walk(roots) {
		b.WriteString("\n")
		b.WriteString(p.Comment(node.Payload, depth))
		b.WriteString("\n")
	}
	return b.String()
}

func (p Printer) User(u hackernews.User) string {
	about := strings.ReplaceAll(p.Text(u.About, 0), "\n", "\n         ")
	return fmt.Sprintf(
		"%s%s\n%s%s\n%s%d\n%s%s\n",
		p.dim.Render("user:    "), u.Id,
		p.dim.Render("created: "), u.Created.Format("2-Jan-2006"),
		p.dim.Render("karma:   "), u.Karma,
		p.dim.Render("about:   "), about,
	)
}
