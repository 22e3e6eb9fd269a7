package cache

import (
	"context"
	"errors"
	"time"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// HistoryPage is one cached page of channel history.
type HistoryPage struct {
	Messages []*domain.Message `json:"messages"`
	HasMore  bool              `json:"hasMore"`
}

// MessageCache caches pages of channel history.
type MessageCache interface {
	BuildKey(channelID string, before time.Time, limit int) string
	Get(ctx context.Context, key string) (*HistoryPage, error)
	Set(ctx context.Context, key string, page *HistoryPage, ttl time.Duration) error
	Close() error
}
