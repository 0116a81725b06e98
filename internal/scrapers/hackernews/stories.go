package hackernews

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"hnreader/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Stories returns the stories of a list at the given page (starting at 1),
// sorted by rank.
func (c *Client) Stories(ctx context.Context, list StoryList, page int) ([]RankedStory, error) {
	ctx, span := tracer.Start(ctx, "Stories")
	defer span.End()

	if page < 1 {
		page = 1
	}
	span.SetAttributes(
		attribute.String("list", list.String()),
		attribute.Int("page", page),
	)

	endpoint := fmt.Sprintf("%s?p=%d", list.Path(), page)
	doc, err := c.fetch(ctx, endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_stories, err, endpoint)
		return nil, err
	}

	var stories []RankedStory
	doc.Find("tr.athing").Each(func(_ int, tr *goquery.Selection) {
		rankText := strings.TrimSuffix(htmlutil.Normalize(tr.Find(".rank").First().Text()), ".")
		rank, err := strconv.Atoi(rankText)
		if err != nil {
			c.tel.ReportWarning(report_client_stories, fmt.Errorf("parse rank: %w", err), endpoint)
			return
		}
		story, err := c.parseStory(tr)
		if err != nil {
			c.tel.ReportWarning(report_client_stories, err, endpoint)
			return
		}
		stories = append(stories, RankedStory{Rank: rank, Story: story})
	})

	slices.SortFunc(stories, func(a, b RankedStory) int {
		return a.Rank - b.Rank
	})
	span.SetAttributes(attribute.Int("stories", len(stories)))
	c.tel.ReportCount("stories", int64(len(stories)))

	return stories, nil
}

// parseStory reads a story out of its title row and the subtext row that
// follows it.
func (c *Client) parseStory(tr *goquery.Selection) (Story, error) {
	id, err := strconv.ParseInt(tr.AttrOr("id", ""), 10, 64)
	if err != nil {
		return Story{}, fmt.Errorf("parse story id: %w", err)
	}

	story := Story{Id: id}

	title := tr.Find(".titleline > a, a.titlelink").First()
	if title.Length() == 0 {
		return Story{}, fmt.Errorf("story %d: missing title", id)
	}
	story.Title = htmlutil.Normalize(title.Text())
	story.Url = c.resolve(title.AttrOr("href", ""))
	story.UrlDisplayed = htmlutil.Normalize(tr.Find(".sitestr").First().Text())

	upvote, ok := tr.Find("a[id^='up_'], a.clicky").First().Attr("href")
	if ok {
		link, err := url.Parse(upvote)
		if err == nil {
			story.UpvoteAuth = link.Query().Get("auth")
		}
	}

	subtext := tr.Next()
	if score, ok := parseCount(subtext.Find(".score").First().Text(), "point"); ok {
		story.Score = &score
	}
	story.User = htmlutil.Normalize(subtext.Find(".hnuser").First().Text())
	story.Date, story.DateDisplayed = parseAge(subtext.Find(".age").First())

	subtext.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := a.Text()
		if !strings.Contains(text, "\u00a0comment") {
			return true
		}
		if count, ok := parseCount(text, "comment"); ok {
			story.CommentCount = &count
		}
		return false
	})

	return story, nil
}

func (c *Client) resolve(href string) string {
	link, err := htmlutil.ResolveUrl(c.baseUrl, href)
	if err != nil {
		return href
	}
	return link.String()
}

// parseCount parses texts like "1 point", "12 points" or "3&nbsp;comments".
func parseCount(text, unit string) (int, bool) {
	text = strings.ReplaceAll(text, "\u00a0", " ")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "s")
	text = strings.TrimSuffix(text, unit)
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, false
	}
	return n, true
}

// parseAge reads a `.age` element, its title has the form
// "2021-07-19T14:33:05" optionally followed by the unix timestamp.
func parseAge(age *goquery.Selection) (time.Time, string) {
	displayed := htmlutil.Normalize(age.Text())
	title, _, _ := strings.Cut(age.AttrOr("title", ""), " ")
	date, err := time.ParseInLocation("2006-01-02T15:04:05", title, time.UTC)
	if err != nil {
		return time.Time{}, displayed
	}
	return date, displayed
}
