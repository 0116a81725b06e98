package hackernews

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
)

// Login exchanges a username and password for a session token, it does not
// change the token the client itself uses.
func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	ctx, span := tracer.Start(ctx, "Login")
	defer span.End()

	span.SetAttributes(attribute.String("username", username))

	res, err := c.noRedirect.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"goto": "news",
			"acct": username,
			"pw":   password,
		}).
		Post("/login")
	if err != nil {
		c.tel.ReportBroken(report_client_login, fmt.Errorf("login request: %w", err), username)
		recordError(span, err)
		return Session{}, err
	}

	for _, cookie := range res.Cookies() {
		if cookie.Name != "user" || cookie.Value == "" {
			continue
		}
		expires := cookie.Expires
		if expires.IsZero() && cookie.MaxAge > 0 {
			expires = time.Now().Add(time.Duration(cookie.MaxAge) * time.Second)
		}
		return Session{Token: cookie.Value, ExpiresAt: expires.UTC()}, nil
	}

	c.tel.ReportDebug("login rejected", username, res.Status())
	return Session{}, ErrInvalidCredentials
}

// Upvote upvotes an item using the auth value found on the item's upvote link.
// It returns false when hacker news refuses the vote.
func (c *Client) Upvote(ctx context.Context, id int64, auth string) (bool, error) {
	ctx, span := tracer.Start(ctx, "Upvote")
	defer span.End()

	span.SetAttributes(attribute.Int64("id", id))

	if c.token == "" {
		return false, ErrNotLoggedIn
	}

	res, err := c.request(ctx).
		SetQueryParams(map[string]string{
			"id":   fmt.Sprint(id),
			"how":  "up",
			"auth": auth,
			"goto": "news",
		}).
		Get("/vote")
	if err != nil {
		c.tel.ReportBroken(report_client_upvote, err, id)
		recordError(span, err)
		return false, err
	}
	if res.IsError() {
		err := fmt.Errorf("vote: unexpected status %s", res.Status())
		c.tel.ReportBroken(report_client_upvote, err, id)
		recordError(span, err)
		return false, err
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		c.tel.ReportBroken(report_client_upvote, err, id)
		return false, err
	}
	// hacker news answers a refused vote with a login form posting to /vote
	if doc.Find("form[action='vote']").Length() > 0 {
		c.tel.ReportWarning(report_client_upvote, "vote refused", id)
		return false, nil
	}
	return true, nil
}
