package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/BlackEmpir7199/StudySphere/internal/cache"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

type historyService struct {
	messages repository.MessageRepository
	cache    cache.MessageCache
	cacheTTL time.Duration
	sf       singleflight.Group
}

func NewHistoryService(
	messages repository.MessageRepository,
	msgCache cache.MessageCache,
	cacheTTL time.Duration,
) HistoryService {
	return &historyService{
		messages: messages,
		cache:    msgCache,
		cacheTTL: cacheTTL,
	}
}

// GetHistory returns a page of channel history, oldest first. Older
// pages are cached; the latest page is always read fresh so new
// messages show up immediately.
func (s *historyService) GetHistory(ctx context.Context, channelID string, before time.Time, limit int) (*domain.HistoryResult, error) {
	if before.IsZero() {
		return s.fetch(ctx, channelID, before, limit)
	}

	cacheKey := s.cache.BuildKey(channelID, before, limit)

	// Collapse concurrent requests for the same page.
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		return s.fetchWithCache(ctx, channelID, before, limit, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	page, ok := result.(*domain.HistoryResult)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return page, nil
}

func (s *historyService) fetchWithCache(ctx context.Context, channelID string, before time.Time, limit int, cacheKey string) (*domain.HistoryResult, error) {
	cached, err := s.cache.Get(ctx, cacheKey)
	if err == nil {
		return &domain.HistoryResult{Messages: cached.Messages, HasMore: cached.HasMore}, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("history cache read failed")
	}

	page, err := s.fetch(ctx, channelID, before, limit)
	if err != nil {
		return nil, err
	}

	if setErr := s.cache.Set(ctx, cacheKey, &cache.HistoryPage{
		Messages: page.Messages,
		HasMore:  page.HasMore,
	}, s.cacheTTL); setErr != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(setErr).Msg("history cache write failed")
	}
	return page, nil
}

func (s *historyService) fetch(ctx context.Context, channelID string, before time.Time, limit int) (*domain.HistoryResult, error) {
	// Ask for one extra row to learn whether an older page exists.
	messages, err := s.messages.ListByChannel(ctx, channelID, before, limit+1)
	if err != nil {
		return nil, fmt.Errorf("failed to get messages from repository: %w", err)
	}

	hasMore := false
	if limit > 0 && len(messages) > limit {
		hasMore = true
		messages = messages[len(messages)-limit:]
	}
	return &domain.HistoryResult{Messages: messages, HasMore: hasMore}, nil
}
