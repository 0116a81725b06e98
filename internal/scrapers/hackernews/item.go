package hackernews

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"hnreader/internal/thread"
	"hnreader/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

const deletedUser = "[deleted]"

// StoryDetails returns a story with its text and comment tree, nil if there is
// no story with the given id.
func (c *Client) StoryDetails(ctx context.Context, id int64) (*StoryWithDetails, error) {
	ctx, span := tracer.Start(ctx, "StoryDetails")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	endpoint := fmt.Sprintf("/item?id=%d", id)
	doc, err := c.fetch(ctx, endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_story_details, err, id)
		return nil, err
	}

	tr := doc.Find("table.fatitem tr.athing").First()
	if tr.Length() == 0 {
		c.tel.ReportDebug("no such story", id)
		return nil, nil
	}

	story, err := c.parseStory(tr)
	if err != nil {
		c.tel.ReportBroken(report_client_story_details, err, id)
		recordError(span, err)
		return nil, err
	}

	details := &StoryWithDetails{Story: story}

	toptext, err := doc.Find("table.fatitem .toptext").First().Html()
	if err != nil {
		c.tel.ReportWarning(report_client_story_details, fmt.Errorf("serialize text: %w", err), id)
	}
	// the reply form occupies the same cell when a story has no text
	if !strings.Contains(toptext, "<form ") {
		details.HtmlContent = strings.TrimSpace(toptext)
	}

	entries, payloads, skipped := c.commentEntries(doc, id)
	if skipped > 0 {
		c.tel.ReportWarning(
			report_client_story_details,
			fmt.Errorf("skipped %d unparsable comments along with their replies", skipped),
			id,
		)
	}

	forest := thread.Build(entries)
	if forest.Dropped > 0 {
		c.tel.ReportWarning(
			report_client_story_details,
			fmt.Errorf("dropped %d comments with an indent gap", forest.Dropped),
			id,
		)
	}

	details.Comments, err = thread.Materialize(forest, payloads)
	if err != nil {
		c.tel.ReportBroken(report_client_story_details, fmt.Errorf("materialize comments: %w", err), id)
		recordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("comments", forest.Len()))

	return details, nil
}

// commentEntries lists the comment rows of an item page in document order. A
// row that cannot be parsed is skipped together with every following row
// indented deeper than it, so that its replies are not attached to an earlier
// sibling.
func (c *Client) commentEntries(doc *goquery.Document, id int64) ([]thread.Entry[int64], map[int64]Comment, int) {
	var entries []thread.Entry[int64]
	payloads := map[int64]Comment{}
	skipped := 0
	// indent of the last unparsable row, -1 when not skipping
	skipDeeperThan := -1

	doc.Find(".comment-tree tr.comtr").Each(func(_ int, tr *goquery.Selection) {
		indent, err := strconv.Atoi(tr.Find("td.ind").First().AttrOr("indent", "0"))
		if err != nil {
			indent = 0
		}
		if skipDeeperThan >= 0 && indent > skipDeeperThan {
			skipped++
			return
		}
		skipDeeperThan = -1

		comment, err := parseComment(tr)
		if err != nil {
			c.tel.ReportWarning(report_client_story_details, err, id)
			skipped++
			skipDeeperThan = indent
			return
		}
		entries = append(entries, thread.Entry[int64]{Indent: indent, Item: comment.Id})
		payloads[comment.Id] = comment
	})

	return entries, payloads, skipped
}

func parseComment(tr *goquery.Selection) (Comment, error) {
	id, err := strconv.ParseInt(tr.AttrOr("id", ""), 10, 64)
	if err != nil {
		return Comment{}, fmt.Errorf("parse comment id: %w", err)
	}

	comment := Comment{Id: id, User: deletedUser}
	if user := htmlutil.Normalize(tr.Find(".hnuser").First().Text()); user != "" {
		comment.User = user
	}
	comment.Date, comment.DateDisplayed = parseAge(tr.Find(".age").First())

	commtext := tr.Find(".commtext").First().Clone()
	commtext.Find(".reply").Remove()
	content, err := commtext.Html()
	if err != nil {
		return Comment{}, fmt.Errorf("comment %d: serialize: %w", id, err)
	}
	comment.HtmlContent = strings.TrimSpace(content)

	return comment, nil
}
