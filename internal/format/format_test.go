package format

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/thread"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func plainPrinter() Printer {
	return NewPrinter(lipgloss.NewRenderer(&bytes.Buffer{}))
}

func intPtr(n int) *int {
	return &n
}

func TestStory(t *testing.T) {
	p := plainPrinter()

	out := p.Story(3, hackernews.Story{
		Title:         "Julia Computing raises $24M Series A",
		UrlDisplayed:  "hpcwire.com",
		User:          "dklend122",
		Score:         intPtr(294),
		DateDisplayed: "3 hours ago",
		CommentCount:  intPtr(135),
	})
	out = ansi.Strip(out)
	require.Equal(
		t,
		" 3. ▲ Julia Computing raises $24M Series A (hpcwire.com)\n"+
			"      294 points by dklend122 3 hours ago | 135 comments",
		out,
	)

	out = p.Story(12, hackernews.Story{
		Title:         "Example is hiring",
		DateDisplayed: "1 day ago",
	})
	out = ansi.Strip(out)
	require.Equal(t, "12. ▲ Example is hiring\n      0 points 1 day ago | 0 comments", out)
}

func TestStoryDetails(t *testing.T) {
	p := plainPrinter()
	out := p.StoryDetails(&hackernews.StoryWithDetails{
		Story: hackernews.Story{
			Title:         "Ask HN: QR codes?",
			Url:           "https://news.ycombinator.com/item?id=1",
			User:          "qrfan",
			Score:         intPtr(1),
			DateDisplayed: "2 hours ago",
		},
		HtmlContent: "How do they work?<p>Really.</p>",
	})
	out = ansi.Strip(out)
	require.Equal(
		t,
		"▲ Ask HN: QR codes?\n"+
			"  1 points by qrfan 2 hours ago | 0 comments\n"+
			"  ↳ https://news.ycombinator.com/item?id=1\n"+
			"\n"+
			"How do they work?\n\nReally.",
		out,
	)
}

func TestText(t *testing.T) {
	p := plainPrinter()

	testCases := []struct {
		name     string
		html     string
		level    int
		expected string
	}{
		{"plain", "hello", 0, "hello"},
		{"entities", "a &amp; b &gt; c &#x27;d&#x27;", 0, "a & b > c 'd'"},
		{"paragraphs", "one<p>two</p><p>three</p>", 0, "one\n\ntwo\n\nthree"},
		{"link", `see <a href="https://go.dev/" rel="nofollow">go.dev</a>`, 0, "see go.dev"},
		{"italic", "<i>really</i> now", 0, "really now"},
		{"indented", "one<p>two", 2, "    one\n    \n    two"},
		{"code", "<pre><code>  x := 1</code></pre>", 0, "x := 1"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, ansi.Strip(p.Text(tc.html, tc.level)))
		})
	}
}

func TestTextWraps(t *testing.T) {
	p := plainPrinter()
	long := strings.Repeat("lorem ipsum dolor sit amet ", 20)

	for _, level := range []int{0, 3} {
		out := ansi.Strip(p.Text(long, level))
		lines := strings.Split(out, "\n")
		require.Greater(t, len(lines), 1)
		for _, line := range lines {
			require.LessOrEqual(t, ansi.StringWidth(line), lineWidth)
			require.True(t, strings.HasPrefix(line, strings.Repeat("  ", level)))
		}
	}
}

func TestUser(t *testing.T) {
	p := plainPrinter()
	out := p.User(hackernews.User{
		Id:      "scastiel",
		Created: time.Date(2019, 2, 16, 0, 0, 0, 0, time.UTC),
		Karma:   1234,
		About:   "Developer.<p>Writes things.",
	})
	out = ansi.Strip(out)
	require.Equal(
		t,
		"user:    scastiel\n"+
			"created: 16-Feb-2019\n"+
			"karma:   1234\n"+
			"about:   Developer.\n"+
			"         \n"+
			"         Writes things.\n",
		out,
	)
}

func sampleThread(t *testing.T) []*thread.Node[hackernews.Comment] {
	t.Helper()
	forest := thread.Build([]thread.Entry[int64]{
		{Indent: 0, Item: 1},
		{Indent: 1, Item: 2},
		{Indent: 0, Item: 3},
	})
	roots, err := thread.Materialize(forest, map[int64]hackernews.Comment{
		1: {Id: 1, User: "alice", DateDisplayed: "1 hour ago", HtmlContent: "Congrats.<p>Well done."},
		2: {Id: 2, User: "bob", DateDisplayed: "50 minutes ago", HtmlContent: "Agreed."},
		3: {Id: 3, User: "[deleted]", DateDisplayed: "10 minutes ago"},
	})
	require.NoError(t, err)
	return roots
}

func TestThread(t *testing.T) {
	p := plainPrinter()
	out := ansi.Strip(p.Thread(sampleThread(t)))
	require.Equal(
		t,
		"\nalice 1 hour ago\nCongrats.\n\nWell done.\n"+
			"\n  bob 50 minutes ago\n  Agreed.\n"+
			"\n[deleted] 10 minutes ago\n\n",
		out,
	)
}

func TestOutline(t *testing.T) {
	out := Outline("Julia Computing raises $24M Series A", sampleThread(t))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	require.Equal(t, "Julia Computing raises $24M Series A", lines[0])
	require.Contains(t, lines[1], "alice: Congrats. Well done.")
	require.Contains(t, lines[2], "bob: Agreed.")
	require.True(t, strings.HasSuffix(lines[3], "[deleted]"))
	require.Greater(t, strings.Index(lines[2], "bob"), strings.Index(lines[1], "alice"))
}

func TestExcerpt(t *testing.T) {
	require.Equal(t, "", excerpt(""))
	long := strings.Repeat("a", 100)
	out := excerpt(long)
	require.Equal(t, excerptLength, len([]rune(out)))
	require.True(t, strings.HasSuffix(out, "…"))
}
