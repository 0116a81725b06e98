package format

import (
	"fmt"
	"strings"

	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/thread"
	"hnreader/pkg/htmlutil"

	"github.com/xlab/treeprint"
	"golang.org/x/net/html"
)

const excerptLength = 60

// Outline renders the shape of a comment thread, one line per comment.
func Outline(title string, roots []*thread.Node[hackernews.Comment]) string {
	tree := treeprint.NewWithRoot(title)
	addComments(tree, roots)
	return tree.String()
}

func addComments(tree treeprint.Tree, nodes []*thread.Node[hackernews.Comment]) {
	for _, n := range nodes {
		label := n.Payload.User
		if text := excerpt(n.Payload.HtmlContent); text != "" {
			label = fmt.Sprintf("%s: %s", label, text)
		}
		if len(n.Children) == 0 {
			tree.AddNode(label)
			continue
		}
		addComments(tree.AddBranch(label), n.Children)
	}
}

func excerpt(content string) string {
	content = strings.ReplaceAll(content, "<p>", " ")
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	text := []rune(htmlutil.Normalize(htmlutil.GetText(doc)))
	if len(text) <= excerptLength {
		return string(text)
	}
	return strings.TrimSpace(string(text[:excerptLength-1])) + "…"
}
