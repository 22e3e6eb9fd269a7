package cache

import (
	"context"
	"fmt"
	"time"
)

// NoopMessageCache is used when Redis is not configured; every lookup
// is a miss.
type NoopMessageCache struct{}

func NewNoopMessageCache() *NoopMessageCache { return &NoopMessageCache{} }

func (NoopMessageCache) BuildKey(channelID string, before time.Time, limit int) string {
	cursor := "latest"
	if !before.IsZero() {
		cursor = fmt.Sprintf("%d", before.UnixNano())
	}
	return fmt.Sprintf("history:%s:%s:%d", channelID, cursor, limit)
}

func (NoopMessageCache) Get(context.Context, string) (*HistoryPage, error) {
	return nil, ErrCacheMiss
}

func (NoopMessageCache) Set(context.Context, string, *HistoryPage, time.Duration) error {
	return nil
}

func (NoopMessageCache) Close() error { return nil }
