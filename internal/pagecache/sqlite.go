package pagecache

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
)

const (
	report_sqlite_get   = "sqlite.get"
	report_sqlite_set   = "sqlite.set"
	report_sqlite_prune = "sqlite.prune"
)

// Sqlite is a Cache persisted in the page_cache table, it survives between runs
// of the cli.
type Sqlite struct {
	qry      *db.Queries
	time     chrono.API
	lifetime time.Duration
	tel      telemetry.API
}

func NewSqlite(qry *db.Queries, time chrono.API, lifetime time.Duration, tel telemetry.API) Sqlite {
	assert.NotNil(qry)
	assert.NotNil(time)
	assert.NotNil(tel)

	return Sqlite{
		qry:      qry,
		time:     time,
		lifetime: lifetime,
		tel:      telemetry.NewScopedAPI("pagecache", tel),
	}
}

func (s Sqlite) Get(ctx context.Context, key string) ([]byte, bool, error) {
	page, err := s.qry.GetCachedPage(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		s.tel.ReportBroken(report_sqlite_get, err, key)
		return nil, false, err
	}

	expiresAt := page.CreatedAt + page.Lifetime
	if s.time.Now().Unix() >= expiresAt {
		s.tel.ReportDebug("cache entry expired", key)
		return nil, false, nil
	}
	return page.Body, true, nil
}

func (s Sqlite) Set(ctx context.Context, key string, body []byte) error {
	err := s.qry.SetCachedPage(ctx, db.SetCachedPageParams{
		Key:       key,
		Body:      body,
		CreatedAt: s.time.Now().Unix(),
		Lifetime:  int64(s.lifetime / time.Second),
	})
	if err != nil {
		s.tel.ReportBroken(report_sqlite_set, err, key)
		return fmt.Errorf("cache page: %w", err)
	}
	return nil
}

// Prune deletes every expired page.
func (s Sqlite) Prune(ctx context.Context) error {
	n, err := s.qry.DeleteExpiredPages(ctx, s.time.Now().Unix())
	if err != nil {
		s.tel.ReportBroken(report_sqlite_prune, err)
		return err
	}
	s.tel.ReportCount("pruned-pages", n)
	return nil
}
