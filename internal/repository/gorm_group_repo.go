package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

// GormGroupRepository implements GroupRepository using GORM.
type GormGroupRepository struct {
	db *gorm.DB
}

// NewGormGroupRepository creates a new GORM-based group repository.
func NewGormGroupRepository(db *gorm.DB) *GormGroupRepository {
	return &GormGroupRepository{db: db}
}

// Create creates a group with its default "general" channel and the
// owner as an admin member, all in one transaction.
func (r *GormGroupRepository) Create(ctx context.Context, group *domain.Group) error {
	group.ID = uuid.New().String()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := &domain.GroupModel{
			ID:          group.ID,
			Name:        group.Name,
			Description: group.Description,
			OwnerID:     group.OwnerID,
		}
		if err := tx.Create(model).Error; err != nil {
			return err
		}
		group.CreatedAt = model.CreatedAt

		member := &domain.GroupMemberModel{
			GroupID: group.ID,
			UserID:  group.OwnerID,
			Role:    domain.RoleAdmin,
		}
		if err := tx.Create(member).Error; err != nil {
			return err
		}

		channel := &domain.ChannelModel{
			ID:      uuid.New().String(),
			GroupID: group.ID,
			Name:    "general",
			Type:    domain.ChannelTypeText,
		}
		if err := tx.Create(channel).Error; err != nil {
			return err
		}
		group.Channels = []domain.Channel{*channel.ToDomain()}
		return nil
	})
}

// GetByID retrieves a group with its channels and member count.
func (r *GormGroupRepository) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	var model domain.GroupModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}
		return nil, result.Error
	}
	group := model.ToDomain()

	channels, err := r.ListChannels(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, ch := range channels {
		group.Channels = append(group.Channels, *ch)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.GroupMemberModel{}).
		Where("group_id = ?", id).Count(&count).Error; err != nil {
		return nil, err
	}
	group.MemberCount = int(count)
	return group, nil
}

// List returns all groups with member counts.
func (r *GormGroupRepository) List(ctx context.Context) ([]*domain.Group, error) {
	var models []domain.GroupModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	return r.withMemberCounts(ctx, models)
}

// ListByMember returns the groups a user belongs to.
func (r *GormGroupRepository) ListByMember(ctx context.Context, userID string) ([]*domain.Group, error) {
	var models []domain.GroupModel
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.withMemberCounts(ctx, models)
}

func (r *GormGroupRepository) withMemberCounts(ctx context.Context, models []domain.GroupModel) ([]*domain.Group, error) {
	groups := make([]*domain.Group, 0, len(models))
	for i := range models {
		group := models[i].ToDomain()
		var count int64
		if err := r.db.WithContext(ctx).Model(&domain.GroupMemberModel{}).
			Where("group_id = ?", group.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		group.MemberCount = int(count)
		groups = append(groups, group)
	}
	return groups, nil
}

// AddMember adds a user to a group. Joining twice is an error.
func (r *GormGroupRepository) AddMember(ctx context.Context, groupID, userID, role string) error {
	if _, err := r.GetByID(ctx, groupID); err != nil {
		return err
	}

	var existing domain.GroupMemberModel
	err := r.db.WithContext(ctx).First(&existing, "group_id = ? AND user_id = ?", groupID, userID).Error
	if err == nil {
		return ErrAlreadyMember
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	member := &domain.GroupMemberModel{GroupID: groupID, UserID: userID, Role: role}
	return r.db.WithContext(ctx).Create(member).Error
}

// RemoveMember removes a user from a group.
func (r *GormGroupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	result := r.db.WithContext(ctx).
		Delete(&domain.GroupMemberModel{}, "group_id = ? AND user_id = ?", groupID, userID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotMember
	}
	return nil
}

// GetMember retrieves a single membership record.
func (r *GormGroupRepository) GetMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error) {
	var model domain.GroupMemberModel
	result := r.db.WithContext(ctx).First(&model, "group_id = ? AND user_id = ?", groupID, userID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotMember
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListMembers returns all members of a group with their emails.
func (r *GormGroupRepository) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	var models []domain.GroupMemberModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("joined_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	members := make([]*domain.GroupMember, 0, len(models))
	for i := range models {
		member := models[i].ToDomain()
		var user domain.UserModel
		if err := r.db.WithContext(ctx).First(&user, "id = ?", member.UserID).Error; err == nil {
			ref := user.ToDomain().Ref()
			member.User = &ref
		}
		members = append(members, member)
	}
	return members, nil
}

// CreateChannel creates a channel within a group.
func (r *GormGroupRepository) CreateChannel(ctx context.Context, channel *domain.Channel) error {
	if _, err := r.GetByID(ctx, channel.GroupID); err != nil {
		return err
	}

	channel.ID = uuid.New().String()
	if channel.Type == "" {
		channel.Type = domain.ChannelTypeText
	}
	model := &domain.ChannelModel{
		ID:      channel.ID,
		GroupID: channel.GroupID,
		Name:    channel.Name,
		Type:    channel.Type,
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	channel.CreatedAt = model.CreatedAt
	return nil
}

// GetChannel retrieves a channel by ID.
func (r *GormGroupRepository) GetChannel(ctx context.Context, channelID string) (*domain.Channel, error) {
	var model domain.ChannelModel
	result := r.db.WithContext(ctx).First(&model, "id = ?", channelID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrChannelNotFound
		}
		return nil, result.Error
	}
	return model.ToDomain(), nil
}

// ListChannels returns the channels of a group, oldest first.
func (r *GormGroupRepository) ListChannels(ctx context.Context, groupID string) ([]*domain.Channel, error) {
	var models []domain.ChannelModel
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	channels := make([]*domain.Channel, 0, len(models))
	for i := range models {
		channels = append(channels, models[i].ToDomain())
	}
	return channels, nil
}
