package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.MessageModel{}))
	return db
}

func seedMessages(t *testing.T, repo *GormMessageRepository, channelID string, n int, base time.Time) []*domain.Message {
	t.Helper()
	msgs := make([]*domain.Message, 0, n)
	for i := 0; i < n; i++ {
		msg := &domain.Message{
			ChannelID: channelID,
			UserID:    "user-1",
			User:      domain.UserRef{ID: "user-1", Email: "alice@example.com"},
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Append(context.Background(), msg))
		msgs = append(msgs, msg)
	}
	return msgs
}

func TestMessageRepoAppendAssignsID(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))

	msg := &domain.Message{
		ChannelID: "chan-1",
		UserID:    "user-1",
		User:      domain.UserRef{ID: "user-1", Email: "alice@example.com"},
		Text:      "hello",
	}
	require.NoError(t, repo.Append(context.Background(), msg))
	require.NotEmpty(t, msg.ID)
	require.False(t, msg.Timestamp.IsZero())
}

func TestMessageRepoListOldestFirst(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "chan-1", 5, base)

	got, err := repo.ListByChannel(context.Background(), "chan-1", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 5)
	for i := 1; i < len(got); i++ {
		require.False(t, got[i].Timestamp.Before(got[i-1].Timestamp))
	}
	require.Equal(t, "message 0", got[0].Text)
	require.Equal(t, "message 4", got[4].Text)
}

func TestMessageRepoListReturnsLatestPage(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "chan-1", 10, base)

	got, err := repo.ListByChannel(context.Background(), "chan-1", time.Time{}, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	// The limit selects the newest messages, still in chronological order.
	require.Equal(t, "message 7", got[0].Text)
	require.Equal(t, "message 9", got[2].Text)
}

func TestMessageRepoListBeforePagination(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	msgs := seedMessages(t, repo, "chan-1", 10, base)

	got, err := repo.ListByChannel(context.Background(), "chan-1", msgs[5].Timestamp, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "message 2", got[0].Text)
	require.Equal(t, "message 4", got[2].Text)
}

func TestMessageRepoListCapsLimit(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "chan-1", 120, base)

	got, err := repo.ListByChannel(context.Background(), "chan-1", time.Time{}, 500)
	require.NoError(t, err)
	require.Len(t, got, maxHistoryLimit)
}

func TestMessageRepoListIsolatesChannels(t *testing.T) {
	repo := NewGormMessageRepository(newTestDB(t))
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	seedMessages(t, repo, "chan-1", 3, base)
	seedMessages(t, repo, "chan-2", 2, base)

	got, err := repo.ListByChannel(context.Background(), "chan-2", time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, msg := range got {
		require.Equal(t, "chan-2", msg.ChannelID)
	}
}
