package domain

import (
	"time"

	"gorm.io/gorm"
)

// Member roles within a group.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Channel types.
const (
	ChannelTypeText = "text"
)

// Group is a topic-based study group owning channels.
type Group struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	OwnerID     string        `json:"ownerId"`
	Owner       *UserRef      `json:"owner,omitempty"`
	Members     []GroupMember `json:"members,omitempty"`
	Channels    []Channel     `json:"channels,omitempty"`
	MemberCount int           `json:"memberCount,omitempty"`
	IsMember    bool          `json:"isMember,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// GroupMember is a user's membership in a group.
type GroupMember struct {
	GroupID  string    `json:"groupId"`
	UserID   string    `json:"userId"`
	Role     string    `json:"role"`
	User     *UserRef  `json:"user,omitempty"`
	JoinedAt time.Time `json:"joinedAt"`
}

// Channel is a named sub-conversation within a group; the unit of room
// membership and message history.
type Channel struct {
	ID        string    `json:"id"`
	GroupID   string    `json:"groupId"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"createdAt"`
}

// GroupModel is the GORM model for the groups table.
type GroupModel struct {
	ID          string         `gorm:"type:varchar(36);primaryKey"`
	Name        string         `gorm:"type:varchar(100);not null"`
	Description string         `gorm:"type:text"`
	OwnerID     string         `gorm:"type:varchar(36);index;not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (GroupModel) TableName() string { return "groups" }

// GroupMemberModel is the GORM model for the group_members join table.
type GroupMemberModel struct {
	GroupID  string    `gorm:"type:varchar(36);primaryKey"`
	UserID   string    `gorm:"type:varchar(36);primaryKey;index"`
	Role     string    `gorm:"type:varchar(20);not null;default:'member'"`
	JoinedAt time.Time `gorm:"autoCreateTime"`
}

func (GroupMemberModel) TableName() string { return "group_members" }

// ChannelModel is the GORM model for the channels table.
type ChannelModel struct {
	ID        string         `gorm:"type:varchar(36);primaryKey"`
	GroupID   string         `gorm:"type:varchar(36);index;not null"`
	Name      string         `gorm:"type:varchar(100);not null"`
	Type      string         `gorm:"type:varchar(20);not null;default:'text'"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChannelModel) TableName() string { return "channels" }

// ToDomain converts GroupModel to domain Group.
func (m *GroupModel) ToDomain() *Group {
	return &Group{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		OwnerID:     m.OwnerID,
		CreatedAt:   m.CreatedAt,
	}
}

// ToDomain converts ChannelModel to domain Channel.
func (m *ChannelModel) ToDomain() *Channel {
	return &Channel{
		ID:        m.ID,
		GroupID:   m.GroupID,
		Name:      m.Name,
		Type:      m.Type,
		CreatedAt: m.CreatedAt,
	}
}

// ToDomain converts GroupMemberModel to domain GroupMember.
func (m *GroupMemberModel) ToDomain() *GroupMember {
	return &GroupMember{
		GroupID:  m.GroupID,
		UserID:   m.UserID,
		Role:     m.Role,
		JoinedAt: m.JoinedAt,
	}
}

// CreateGroupRequest is the group creation payload.
type CreateGroupRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateChannelRequest is the channel creation payload.
type CreateChannelRequest struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type"`
}
