package graphql

import (
	"context"
	"strconv"
	"strings"
	"time"

	"hnreader/internal/components/telemetry"
	"hnreader/internal/scrapers/hackernews"
	"hnreader/internal/thread"

	"github.com/graph-gophers/graphql-go"
)

const (
	report_resolver_stories = "resolver.stories"
	report_resolver_story   = "resolver.story"
	report_resolver_user    = "resolver.user"
)

// Source is where the resolvers get their data, *hackernews.Client satisfies
// it.
type Source interface {
	Stories(ctx context.Context, list hackernews.StoryList, page int) ([]hackernews.RankedStory, error)
	StoryDetails(ctx context.Context, id int64) (*hackernews.StoryWithDetails, error)
	UserDetails(ctx context.Context, id string) (*hackernews.User, error)
}

type story struct {
	Id            graphql.ID
	Title         string
	Url           string
	UrlDisplayed  *string
	User          *string
	Score         *int32
	Date          string
	DateDisplayed string
	CommentCount  *int32
}

type storyWithRank struct {
	Rank  int32
	Story story
}

type comment struct {
	Parent        *graphql.ID
	Id            graphql.ID
	User          string
	Date          string
	DateDisplayed string
	HtmlContent   string
	Children      []graphql.ID
}

type storyWithDetails struct {
	Story       story
	HtmlContent *string
	Comments    []comment
}

type user struct {
	Id      graphql.ID
	Created string
	Karma   int32
	About   string
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func optionalInt(n *int) *int32 {
	if n == nil {
		return nil
	}
	v := int32(*n)
	return &v
}

func itemId(id int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(id, 10))
}

func formatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func toStory(s hackernews.Story) story {
	return story{
		Id:            itemId(s.Id),
		Title:         s.Title,
		Url:           s.Url,
		UrlDisplayed:  optionalString(s.UrlDisplayed),
		User:          optionalString(s.User),
		Score:         optionalInt(s.Score),
		Date:          formatDate(s.Date),
		DateDisplayed: s.DateDisplayed,
		CommentCount:  optionalInt(s.CommentCount),
	}
}

// flattenComments lists the comments in reading order, each tagged with the id
// of its parent and of its children.
func flattenComments(roots []*thread.Node[hackernews.Comment]) []comment {
	comments := []comment{}
	for _, node := range thread.Walk(roots) {
		c := comment{
			Id:            itemId(node.Payload.Id),
			User:          node.Payload.User,
			Date:          formatDate(node.Payload.Date),
			DateDisplayed: node.Payload.DateDisplayed,
			HtmlContent:   node.Payload.HtmlContent,
			Children:      make([]graphql.ID, len(node.Children)),
		}
		if parent := node.Parent(); parent != nil {
			id := itemId(parent.Payload.Id)
			c.Parent = &id
		}
		for i, child := range node.Children {
			c.Children[i] = itemId(child.Payload.Id)
		}
		comments = append(comments, c)
	}
	return comments
}

type resolver struct {
	src Source
	tel telemetry.API
}

type storiesArgs struct {
	Input struct {
		List *string
		Page *int32
	}
}

func (r *resolver) Stories(ctx context.Context, args storiesArgs) (result []storyWithRank, err error) {
	defer func() { countCall("stories", err) }()

	list := hackernews.LIST_NEWS
	if args.Input.List != nil {
		list, err = hackernews.ParseStoryList(strings.ToLower(*args.Input.List))
		if err != nil {
			return nil, err
		}
	}
	page := 1
	if args.Input.Page != nil {
		page = int(*args.Input.Page)
	}

	stories, err := r.src.Stories(ctx, list, page)
	if err != nil {
		r.tel.ReportBroken(report_resolver_stories, err, list.String(), page)
		return nil, err
	}

	result = make([]storyWithRank, len(stories))
	for i, s := range stories {
		result[i] = storyWithRank{Rank: int32(s.Rank), Story: toStory(s.Story)}
	}
	return result, nil
}

func (r *resolver) Story(ctx context.Context, args struct{ Id graphql.ID }) (result *storyWithDetails, err error) {
	defer func() { countCall("story", err) }()

	id, err := strconv.ParseInt(string(args.Id), 10, 64)
	if err != nil {
		return nil, err
	}

	details, err := r.src.StoryDetails(ctx, id)
	if err != nil {
		r.tel.ReportBroken(report_resolver_story, err, id)
		return nil, err
	}
	if details == nil {
		return nil, nil
	}

	return &storyWithDetails{
		Story:       toStory(details.Story),
		HtmlContent: optionalString(details.HtmlContent),
		Comments:    flattenComments(details.Comments),
	}, nil
}

func (r *resolver) User(ctx context.Context, args struct{ Id graphql.ID }) (result *user, err error) {
	defer func() { countCall("user", err) }()

	details, err := r.src.UserDetails(ctx, string(args.Id))
	if err != nil {
		r.tel.ReportBroken(report_resolver_user, err, args.Id)
		return nil, err
	}
	if details == nil {
		return nil, nil
	}

	return &user{
		Id:      graphql.ID(details.Id),
		Created: details.Created.Format(time.DateOnly),
		Karma:   int32(details.Karma),
		About:   details.About,
	}, nil
}
