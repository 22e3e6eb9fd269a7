package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

// GormEventRepository implements EventRepository using GORM.
type GormEventRepository struct {
	db *gorm.DB
}

// NewGormEventRepository creates a new GORM-based event repository.
func NewGormEventRepository(db *gorm.DB) *GormEventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a scheduled study session.
func (r *GormEventRepository) Create(ctx context.Context, event *domain.Event) error {
	event.ID = uuid.New().String()

	model := domain.EventToModel(event)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	event.CreatedAt = model.CreatedAt
	return nil
}

// GetByID retrieves an event by ID.
func (r *GormEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	var model domain.EventModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByChannel returns a channel's events, soonest first.
func (r *GormEventRepository) ListByChannel(ctx context.Context, channelID string) ([]*domain.Event, error) {
	var models []domain.EventModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("scheduled_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	events := make([]*domain.Event, 0, len(models))
	for i := range models {
		events = append(events, models[i].ToDomain())
	}
	return events, nil
}

// Update rewrites an event's mutable fields.
func (r *GormEventRepository) Update(ctx context.Context, event *domain.Event) error {
	result := r.db.WithContext(ctx).Model(&domain.EventModel{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"title":          event.Title,
			"description":    event.Description,
			"meet_link":      event.MeetLink,
			"scheduled_date": event.ScheduledDate,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete soft-deletes an event.
func (r *GormEventRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.EventModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}
