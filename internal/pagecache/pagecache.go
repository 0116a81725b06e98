// Package pagecache caches raw html pages keyed by their normalized url.
package pagecache

import (
	"context"
	"net/url"

	"github.com/PuerkitoBio/purell"
)

// Cache stores page bodies. Get returns ok = false on a miss, expired pages are
// misses.
type Cache interface {
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	Set(ctx context.Context, key string, body []byte) error
}

// Key resolves endpoint against base and normalizes it, so that urls differing
// only in query order, default ports, fragments and the like share an entry.
func Key(base *url.URL, endpoint string) (string, error) {
	full, err := base.Parse(endpoint)
	if err != nil {
		return "", err
	}
	return purell.NormalizeURL(
		full,
		purell.FlagsSafe|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery|
			purell.FlagRemoveDuplicateSlashes,
	), nil
}
