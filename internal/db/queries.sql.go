// source: queries.sql

package db

import (
	"context"
)

const getCachedPage = `-- name: GetCachedPage :one
select key, body, created_at, lifetime from page_cache where key = ?
`

func (q *Queries) GetCachedPage(ctx context.Context, key string) (PageCache, error) {
	row := q.db.QueryRowContext(ctx, getCachedPage, key)
	var i PageCache
	err := row.Scan(
		&i.Key,
		&i.Body,
		&i.CreatedAt,
		&i.Lifetime,
	)
	return i, err
}

const setCachedPage = `-- name: SetCachedPage :exec
insert into page_cache(key, body, created_at, lifetime) values (?, ?, ?, ?)
on conflict (key) do update set
    body = excluded.body,
    created_at = excluded.created_at,
    lifetime = excluded.lifetime
`

type SetCachedPageParams struct {
	Key       string
	Body      []byte
	CreatedAt int64
	Lifetime  int64
}

func (q *Queries) SetCachedPage(ctx context.Context, arg SetCachedPageParams) error {
	_, err := q.db.ExecContext(ctx, setCachedPage,
		arg.Key,
		arg.Body,
		arg.CreatedAt,
		arg.Lifetime,
	)
	return err
}

const deleteExpiredPages = `-- name: DeleteExpiredPages :execrows
delete from page_cache where created_at + lifetime <= ?
`

func (q *Queries) DeleteExpiredPages(ctx context.Context, now int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteExpiredPages, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const upsertListedStory = `-- name: UpsertListedStory :exec
insert into listed_story(rank, story_id, title, url) values (?, ?, ?, ?)
on conflict (rank) do update set
    story_id = excluded.story_id,
    title = excluded.title,
    url = excluded.url
`

type UpsertListedStoryParams struct {
	Rank    int64
	StoryID int64
	Title   string
	Url     string
}

func (q *Queries) UpsertListedStory(ctx context.Context, arg UpsertListedStoryParams) error {
	_, err := q.db.ExecContext(ctx, upsertListedStory,
		arg.Rank,
		arg.StoryID,
		arg.Title,
		arg.Url,
	)
	return err
}

const getListedStory = `-- name: GetListedStory :one
select rank, story_id, title, url from listed_story where rank = ?
`

func (q *Queries) GetListedStory(ctx context.Context, rank int64) (ListedStory, error) {
	row := q.db.QueryRowContext(ctx, getListedStory, rank)
	var i ListedStory
	err := row.Scan(
		&i.Rank,
		&i.StoryID,
		&i.Title,
		&i.Url,
	)
	return i, err
}

const getSession = `-- name: GetSession :one
select id, username, expires_at from session where id = 0
`

func (q *Queries) GetSession(ctx context.Context) (Session, error) {
	row := q.db.QueryRowContext(ctx, getSession)
	var i Session
	err := row.Scan(&i.ID, &i.Username, &i.ExpiresAt)
	return i, err
}

const setSession = `-- name: SetSession :exec
insert into session(id, username, expires_at) values (0, ?, ?)
on conflict (id) do update set
    username = excluded.username,
    expires_at = excluded.expires_at
`

type SetSessionParams struct {
	Username  string
	ExpiresAt int64
}

func (q *Queries) SetSession(ctx context.Context, arg SetSessionParams) error {
	_, err := q.db.ExecContext(ctx, setSession, arg.Username, arg.ExpiresAt)
	return err
}

const deleteSession = `-- name: DeleteSession :exec
delete from session
`

func (q *Queries) DeleteSession(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteSession)
	return err
}
