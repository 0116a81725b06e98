package hackernews

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"hnreader/internal/thread"
)

var (
	ErrNotLoggedIn        = errors.New("hackernews: not logged in")
	ErrInvalidCredentials = errors.New("hackernews: invalid username or password")
)

type StoryList int

const (
	LIST_NEWS StoryList = iota
	LIST_NEWEST
	LIST_ASK
	LIST_SHOW
	LIST_JOBS
	LIST_BEST
)

var storyListPaths = map[StoryList]string{
	LIST_NEWS:   "/news",
	LIST_NEWEST: "/newest",
	LIST_ASK:    "/ask",
	LIST_SHOW:   "/show",
	LIST_JOBS:   "/jobs",
	LIST_BEST:   "/best",
}

func (l StoryList) Path() string {
	return storyListPaths[l]
}

func (l StoryList) String() string {
	return strings.TrimPrefix(l.Path(), "/")
}

// ParseStoryList accepts the name of a list as it appears in its path, ex.
// "newest".
func ParseStoryList(name string) (StoryList, error) {
	for list, path := range storyListPaths {
		if path[1:] == strings.ToLower(name) {
			return list, nil
		}
	}
	return 0, fmt.Errorf("unknown story list '%s'", name)
}

type Story struct {
	Id    int64  `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	// Url is the link of the story, for text stories it points back to hacker
	// news.
	Url string `json:"url" yaml:"url"`
	// UrlDisplayed is the site as hacker news displays it, ex. "github.com/user".
	UrlDisplayed string `json:"url_displayed,omitempty" yaml:"url_displayed,omitempty"`
	// UpvoteAuth is only present when the page was fetched while logged in.
	UpvoteAuth    string    `json:"upvote_auth,omitempty" yaml:"upvote_auth,omitempty"`
	User          string    `json:"user,omitempty" yaml:"user,omitempty"`
	Score         *int      `json:"score,omitempty" yaml:"score,omitempty"`
	Date          time.Time `json:"date" yaml:"date"`
	DateDisplayed string    `json:"date_displayed" yaml:"date_displayed"`
	CommentCount  *int      `json:"comment_count,omitempty" yaml:"comment_count,omitempty"`
}

type RankedStory struct {
	Rank  int `json:"rank" yaml:"rank"`
	Story `yaml:",inline"`
}

type Comment struct {
	Id            int64     `json:"id" yaml:"id"`
	User          string    `json:"user" yaml:"user"`
	Date          time.Time `json:"date" yaml:"date"`
	DateDisplayed string    `json:"date_displayed" yaml:"date_displayed"`
	HtmlContent   string    `json:"html_content" yaml:"html_content"`
}

type StoryWithDetails struct {
	Story Story `json:"story" yaml:"story"`
	// HtmlContent is the text of ask/show/text stories, empty for link stories.
	HtmlContent string                  `json:"html_content,omitempty" yaml:"html_content,omitempty"`
	Comments    []*thread.Node[Comment] `json:"comments" yaml:"comments"`
}

type User struct {
	Id      string    `json:"id" yaml:"id"`
	Created time.Time `json:"created" yaml:"created"`
	Karma   int       `json:"karma" yaml:"karma"`
	// About is html.
	About string `json:"about" yaml:"about"`
}

// Session is what a successful login yields, Token is the value of the "user"
// cookie.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// Username extracts the username from a session token, tokens have the form
// "<username>&<secret>".
func (s Session) Username() string {
	name, _, _ := strings.Cut(s.Token, "&")
	return name
}
