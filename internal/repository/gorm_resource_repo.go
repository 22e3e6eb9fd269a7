package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

// GormResourceRepository implements ResourceRepository using GORM.
type GormResourceRepository struct {
	db *gorm.DB
}

// NewGormResourceRepository creates a new GORM-based resource repository.
func NewGormResourceRepository(db *gorm.DB) *GormResourceRepository {
	return &GormResourceRepository{db: db}
}

// Create creates a shared resource.
func (r *GormResourceRepository) Create(ctx context.Context, resource *domain.Resource) error {
	resource.ID = uuid.New().String()

	model := domain.ResourceToModel(resource)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	resource.Timestamp = model.Timestamp
	return nil
}

// GetByID retrieves a resource by ID.
func (r *GormResourceRepository) GetByID(ctx context.Context, id string) (*domain.Resource, error) {
	var model domain.ResourceModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListByChannel returns a channel's resources, newest first.
func (r *GormResourceRepository) ListByChannel(ctx context.Context, channelID string) ([]*domain.Resource, error) {
	var models []domain.ResourceModel
	err := r.db.WithContext(ctx).
		Where("channel_id = ?", channelID).
		Order("timestamp DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	resources := make([]*domain.Resource, 0, len(models))
	for i := range models {
		resources = append(resources, models[i].ToDomain())
	}
	return resources, nil
}

// UpdateSummary stores a generated summary on a resource.
func (r *GormResourceRepository) UpdateSummary(ctx context.Context, id, summary string) error {
	result := r.db.WithContext(ctx).Model(&domain.ResourceModel{}).
		Where("id = ?", id).
		Update("summary", summary)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}

// Delete soft-deletes a resource.
func (r *GormResourceRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&domain.ResourceModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResourceNotFound
	}
	return nil
}
