package state

import (
	"context"
	"testing"
	"time"

	"hnreader/internal/components/chrono"
	"hnreader/internal/components/telemetry"
	"hnreader/internal/db"
	"hnreader/internal/scrapers/hackernews"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (Store, *chrono.Fixed) {
	t.Helper()
	sqlite, err := db.OpenDB(db.Schema, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	clock := &chrono.Fixed{Time: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(db.New(sqlite), db.NewMakeTx(sqlite), clock, telemetry.NewTestAPI())
	return store, clock
}

func ranked(rank int, id int64, title string) hackernews.RankedStory {
	return hackernews.RankedStory{
		Rank: rank,
		Story: hackernews.Story{
			Id:    id,
			Title: title,
			Url:   "https://example.com/" + title,
		},
	}
}

func TestRememberStories(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.StoryAt(ctx, 1)
	require.ErrorIs(t, err, ErrUnknownRank)

	require.NoError(t, store.RememberStories(ctx, []hackernews.RankedStory{
		ranked(1, 100, "first"),
		ranked(2, 200, "second"),
	}))
	// a later page keeps the earlier ranks
	require.NoError(t, store.RememberStories(ctx, []hackernews.RankedStory{
		ranked(31, 3100, "next-page"),
	}))
	// listing page 1 again replaces rank 1
	require.NoError(t, store.RememberStories(ctx, []hackernews.RankedStory{
		ranked(1, 101, "replaced"),
	}))

	story, err := store.StoryAt(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, db.ListedStory{Rank: 1, StoryID: 101, Title: "replaced", Url: "https://example.com/replaced"}, story)

	story, err = store.StoryAt(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, int64(200), story.StoryID)

	story, err = store.StoryAt(ctx, 31)
	require.NoError(t, err)
	require.Equal(t, int64(3100), story.StoryID)
}

func TestSession(t *testing.T) {
	store, clock := newTestStore(t)
	ctx := context.Background()

	_, err := store.Session(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	expires := clock.Now().Add(time.Hour)
	require.NoError(t, store.SaveSession(ctx, "scastiel", expires))

	session, err := store.Session(ctx)
	require.NoError(t, err)
	require.Equal(t, "scastiel", session.Username)
	require.True(t, session.ExpiresAt.Equal(expires))

	clock.Advance(time.Hour)
	_, err = store.Session(ctx)
	require.ErrorIs(t, err, ErrNoSession)

	require.NoError(t, store.SaveSession(ctx, "pg", time.Time{}))
	clock.Advance(24 * 365 * time.Hour)
	session, err = store.Session(ctx)
	require.NoError(t, err)
	require.Equal(t, "pg", session.Username)

	require.NoError(t, store.ClearSession(ctx))
	_, err = store.Session(ctx)
	require.ErrorIs(t, err, ErrNoSession)
}
