package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

const (
	defaultHistoryLimit = 50
	maxHistoryLimit     = 100
)

// GormMessageRepository implements MessageRepository using GORM.
// Messages are append-only; nothing updates or deletes them.
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GORM-based message repository.
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// Append persists a message, assigning its ID and timestamp if unset.
func (r *GormMessageRepository) Append(ctx context.Context, msg *domain.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}

	model := domain.MessageToModel(msg)
	return r.db.WithContext(ctx).Create(model).Error
}

// ListByChannel returns up to limit messages for a channel, oldest
// first. A non-zero before timestamp pages backwards through history.
func (r *GormMessageRepository) ListByChannel(ctx context.Context, channelID string, before time.Time, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	// Fetch newest-first so the limit selects the most recent page,
	// then reverse into chronological order.
	query := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("timestamp DESC").
		Limit(limit)
	if !before.IsZero() {
		query = query.Where("timestamp < ?", before)
	}

	var models []domain.MessageModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	messages := make([]*domain.Message, len(models))
	for i := range models {
		messages[len(models)-1-i] = models[i].ToDomain()
	}
	return messages, nil
}
