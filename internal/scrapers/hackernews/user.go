package hackernews

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hnreader/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

var createdDateRegex = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// UserDetails returns the profile of a user, nil if there is no such user.
func (c *Client) UserDetails(ctx context.Context, id string) (*User, error) {
	ctx, span := tracer.Start(ctx, "UserDetails")
	defer span.End()

	span.SetAttributes(attribute.String("id", id))

	endpoint := "/user?id=" + url.QueryEscape(id)
	doc, err := c.fetch(ctx, endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_user_details, err, id)
		return nil, err
	}

	// the profile is a table of "label:" | value rows
	fields := map[string]*goquery.Selection{}
	doc.Find("#hnmain tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.ChildrenFiltered("td")
		if cells.Length() != 2 {
			return
		}
		label := htmlutil.Normalize(cells.First().Text())
		if !strings.HasSuffix(label, ":") {
			return
		}
		fields[strings.TrimSuffix(label, ":")] = cells.Last()
	})

	userCell, ok := fields["user"]
	if !ok {
		c.tel.ReportDebug("no such user", id)
		return nil, nil
	}

	user := &User{Id: htmlutil.Normalize(userCell.Text())}

	if created, ok := fields["created"]; ok {
		user.Created, err = parseCreated(created)
		if err != nil {
			c.tel.ReportWarning(report_client_user_details, err, id)
		}
	}
	if karma, ok := fields["karma"]; ok {
		user.Karma, err = strconv.Atoi(htmlutil.Normalize(karma.Text()))
		if err != nil {
			c.tel.ReportWarning(report_client_user_details, fmt.Errorf("parse karma: %w", err), id)
		}
	}
	if about, ok := fields["about"]; ok {
		content, err := about.Html()
		if err != nil {
			c.tel.ReportWarning(report_client_user_details, fmt.Errorf("serialize about: %w", err), id)
		}
		user.About = strings.TrimSpace(content)
	}

	return user, nil
}

// parseCreated prefers the date in the link to the user's first day, falling
// back to the displayed "January 2, 2006" text.
func parseCreated(cell *goquery.Selection) (time.Time, error) {
	href := cell.Find("a").AttrOr("href", "")
	if date := createdDateRegex.FindString(href); date != "" {
		return time.Parse(time.DateOnly, date)
	}
	created, err := time.Parse("January 2, 2006", htmlutil.Normalize(cell.Text()))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse created date: %w", err)
	}
	return created, nil
}
