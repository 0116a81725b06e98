// Package state remembers what the cli showed last and who is logged in, so
// that later invocations can refer to stories by the rank they were listed at.
package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"hnreader/internal/components/assert"
	"hnreader/internal/components/chrono"
	"hnreader/internal/components/telemetry"
	"hnreader/internal/db"
	"hnreader/internal/scrapers/hackernews"
)

const (
	report_store_remember_stories = "store.remember-stories"
	report_store_session          = "store.session"
)

var (
	ErrUnknownRank = errors.New("invalid story index")
	ErrNoSession   = errors.New("not signed in")
)

type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	time   chrono.API
	tel    telemetry.API
}

func NewStore(qry *db.Queries, makeTx db.MakeTx, time chrono.API, tel telemetry.API) Store {
	assert.NotNil(qry)
	assert.NotNil(makeTx)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Store{
		qry:    qry,
		makeTx: makeTx,
		time:   time,
		tel:    telemetry.NewScopedAPI("state", tel),
	}
}

// RememberStories records the stories by rank. Ranks from previously listed
// pages are kept, so "page 2" ranks stay addressable after listing page 1.
func (s Store) RememberStories(ctx context.Context, stories []hackernews.RankedStory) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		s.tel.ReportBroken(report_store_remember_stories, fmt.Errorf("make tx: %w", err))
		return err
	}
	defer discard()

	for _, story := range stories {
		err = tx.UpsertListedStory(ctx, db.UpsertListedStoryParams{
			Rank:    int64(story.Rank),
			StoryID: story.Id,
			Title:   story.Title,
			Url:     story.Url,
		})
		if err != nil {
			s.tel.ReportBroken(report_store_remember_stories, err, story.Rank, story.Id)
			return err
		}
	}

	return commit()
}

func (s Store) StoryAt(ctx context.Context, rank int) (db.ListedStory, error) {
	story, err := s.qry.GetListedStory(ctx, int64(rank))
	if errors.Is(err, sql.ErrNoRows) {
		return db.ListedStory{}, ErrUnknownRank
	}
	return story, err
}

type Session struct {
	Username  string
	ExpiresAt time.Time
}

// Session returns the current session, expired sessions are cleared and
// reported as ErrNoSession.
func (s Store) Session(ctx context.Context) (Session, error) {
	row, err := s.qry.GetSession(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNoSession
	}
	if err != nil {
		s.tel.ReportBroken(report_store_session, err)
		return Session{}, err
	}

	session := Session{
		Username:  row.Username,
		ExpiresAt: time.Unix(row.ExpiresAt, 0).UTC(),
	}
	if row.ExpiresAt > 0 && !s.time.Now().Before(session.ExpiresAt) {
		s.tel.ReportDebug("session expired", session.Username, session.ExpiresAt)
		err = s.qry.DeleteSession(ctx)
		if err != nil {
			s.tel.ReportBroken(report_store_session, err)
			return Session{}, err
		}
		return Session{}, ErrNoSession
	}
	return session, nil
}

// SaveSession replaces the current session. A zero expiresAt never expires.
func (s Store) SaveSession(ctx context.Context, username string, expiresAt time.Time) error {
	var expires int64
	if !expiresAt.IsZero() {
		expires = expiresAt.Unix()
	}
	return s.qry.SetSession(ctx, db.SetSessionParams{
		Username:  username,
		ExpiresAt: expires,
	})
}

func (s Store) ClearSession(ctx context.Context) error {
	return s.qry.DeleteSession(ctx)
}
