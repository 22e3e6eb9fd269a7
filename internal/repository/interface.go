package repository

import (
	"context"
	"errors"
	"time"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

// Sentinel errors returned by repositories. Services match on these
// with errors.Is to decide HTTP status codes.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailExists      = errors.New("email already registered")
	ErrGroupNotFound    = errors.New("group not found")
	ErrChannelNotFound  = errors.New("channel not found")
	ErrEventNotFound    = errors.New("event not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrAlreadyMember    = errors.New("already a member")
	ErrNotMember        = errors.New("not a member")
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateInterests(ctx context.Context, id string, interests []string) error
}

// GroupRepository provides access to groups, memberships and channels.
type GroupRepository interface {
	Create(ctx context.Context, group *domain.Group) error
	GetByID(ctx context.Context, id string) (*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	ListByMember(ctx context.Context, userID string) ([]*domain.Group, error)

	AddMember(ctx context.Context, groupID, userID, role string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	GetMember(ctx context.Context, groupID, userID string) (*domain.GroupMember, error)
	ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error)

	CreateChannel(ctx context.Context, channel *domain.Channel) error
	GetChannel(ctx context.Context, channelID string) (*domain.Channel, error)
	ListChannels(ctx context.Context, groupID string) ([]*domain.Channel, error)
}

// MessageRepository is the append-only message store.
type MessageRepository interface {
	Append(ctx context.Context, msg *domain.Message) error
	ListByChannel(ctx context.Context, channelID string, before time.Time, limit int) ([]*domain.Message, error)
}

// EventRepository provides access to scheduled study sessions.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListByChannel(ctx context.Context, channelID string) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
}

// ResourceRepository provides access to shared study materials.
type ResourceRepository interface {
	Create(ctx context.Context, resource *domain.Resource) error
	GetByID(ctx context.Context, id string) (*domain.Resource, error)
	ListByChannel(ctx context.Context, channelID string) ([]*domain.Resource, error)
	UpdateSummary(ctx context.Context, id, summary string) error
	Delete(ctx context.Context, id string) error
}
