// Package hackernews scrapes the hacker news website. It does not use the
// official api because that api can neither return every comment of a story in
// one request nor perform write operations like upvoting.
package hackernews

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"hnreader/internal/components/assert"
	"hnreader/internal/components/telemetry"
	"hnreader/internal/pagecache"
	"hnreader/internal/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const DefaultBaseUrl = "https://news.ycombinator.com"

var tracer = otel.Tracer("internal/scrapers/hackernews")

const (
	report_client_cache         = "client.cache"
	report_client_stories       = "client.stories"
	report_client_story_details = "client.story-details"
	report_client_user_details  = "client.user-details"
	report_client_login         = "client.login"
	report_client_upvote        = "client.upvote"
)

type ClientOptions struct {
	// BaseUrl defaults to DefaultBaseUrl.
	BaseUrl string
	// Cache is optional, pages fetched while logged in are never cached.
	Cache pagecache.Cache
	// RequestsPerSecond defaults to 2.
	RequestsPerSecond float64
	// BrowserTransport makes requests look like they come from a browser, to
	// get through cloudflare style bot protection.
	BrowserTransport bool
	// Timeout defaults to 30 seconds.
	Timeout time.Duration
	// Dump receives every http exchange when set.
	Dump restyutil.Output
}

type Client struct {
	baseUrl *url.URL
	http    *resty.Client
	// noRedirect is used for login, where the cookie is on the redirect itself.
	noRedirect *resty.Client
	cache      pagecache.Cache
	token      string

	tel telemetry.API
}

func NewClient(opts ClientOptions, tel telemetry.API) (*Client, error) {
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("hackernews", tel)

	if opts.BaseUrl == "" {
		opts.BaseUrl = DefaultBaseUrl
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}

	parsedBaseUrl, err := url.Parse(opts.BaseUrl)
	if err != nil {
		return nil, err
	}

	// max burst >= requests per second just means that no requests will be dropped
	burst := max(1, int(opts.RequestsPerSecond))
	rateLimiter := rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	newHttp := func() *resty.Client {
		httpClient := resty.New()
		httpClient.SetBaseURL(opts.BaseUrl)
		if opts.BrowserTransport {
			httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
		}
		httpClient.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
		httpClient.SetTimeout(opts.Timeout)
		httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			return rateLimiter.Wait(req.Context())
		})
		telemetry.InstrumentResty(httpClient, tel)
		restyutil.Dump(httpClient, opts.Dump)
		return httpClient
	}

	httpClient := newHttp()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	httpClient.SetRedirectPolicy(resty.DomainCheckRedirectPolicy(parsedBaseUrl.Hostname()))

	noRedirect := newHttp()
	noRedirect.SetRedirectPolicy(resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}))

	return &Client{
		baseUrl:    parsedBaseUrl,
		http:       httpClient,
		noRedirect: noRedirect,
		cache:      opts.Cache,
		tel:        tel,
	}, nil
}

// SetToken makes all further requests on behalf of the user the token belongs
// to. It is not safe to call while requests are in flight.
func (c *Client) SetToken(token string) {
	c.token = token
}

func (c *Client) LoggedIn() bool {
	return c.token != ""
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx)
	if c.token != "" {
		req.SetCookie(&http.Cookie{Name: "user", Value: c.token})
	}
	return req
}

func recordError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// fetch gets the page at endpoint, going through the cache when logged out.
func (c *Client) fetch(ctx context.Context, endpoint string) (*goquery.Document, error) {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()

	cacheable := c.cache != nil && c.token == ""

	var key string
	if cacheable {
		var err error
		key, err = pagecache.Key(c.baseUrl, endpoint)
		if err != nil {
			recordError(span, err)
			return nil, fmt.Errorf("cache key: %w", err)
		}
		body, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.tel.ReportWarning(report_client_cache, fmt.Errorf("get: %w", err), key)
		}
		if ok {
			c.tel.ReportDebug("cache hit", key)
			return parseDocument(body)
		}
	}

	res, err := c.request(ctx).Get(endpoint)
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	if res.IsError() {
		err := fmt.Errorf("fetch %s: unexpected status %s", endpoint, res.Status())
		recordError(span, err)
		return nil, err
	}

	doc, err := parseDocument(res.Body())
	if err != nil {
		recordError(span, err)
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	if cacheable {
		err = c.cache.Set(ctx, key, res.Body())
		if err != nil {
			c.tel.ReportWarning(report_client_cache, fmt.Errorf("set: %w", err), key)
		}
	}

	return doc, nil
}

func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return doc, nil
}
