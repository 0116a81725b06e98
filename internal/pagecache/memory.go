package pagecache

import (
	"context"
	"time"

	"hnreader/internal/components/assert"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process Cache holding at most size pages for ttl each.
type Memory struct {
	lru *expirable.LRU[string, []byte]
}

func NewMemory(size int, ttl time.Duration) Memory {
	assert.Positive(size)
	return Memory{lru: expirable.NewLRU[string, []byte](size, nil, ttl)}
}

func (m Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	body, ok := m.lru.Get(key)
	return body, ok, nil
}

func (m Memory) Set(_ context.Context, key string, body []byte) error {
	m.lru.Add(key, body)
	return nil
}
