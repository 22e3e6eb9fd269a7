package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
)

// ChatService handles WebSocket intents for one connected client.
type ChatService interface {
	HandleJoin(ctx context.Context, c *hub.Client, channelID string) error
	HandleLeave(ctx context.Context, c *hub.Client, channelID string) error
	HandleSend(ctx context.Context, c *hub.Client, channelID, text string) error
	HandleTypingStart(ctx context.Context, c *hub.Client, channelID string) error
	HandleTypingStop(ctx context.Context, c *hub.Client, channelID string) error
	HandleDisconnect(ctx context.Context, c *hub.Client)
}

// AuthService handles account registration and credential login.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*domain.User, string, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
	GetUser(ctx context.Context, userID string) (*domain.User, error)
}

// ProfileService handles the preference quiz and group suggestions.
type ProfileService interface {
	SubmitQuiz(ctx context.Context, userID string, answers []string) ([]string, error)
	SuggestGroups(ctx context.Context, userID string) ([]*domain.Group, error)
}

// GroupService handles groups, memberships and channels.
type GroupService interface {
	CreateGroup(ctx context.Context, ownerID string, req *domain.CreateGroupRequest) (*domain.Group, error)
	GetGroup(ctx context.Context, groupID, viewerID string) (*domain.Group, error)
	ListGroups(ctx context.Context, viewerID string) ([]*domain.Group, error)
	ListMyGroups(ctx context.Context, userID string) ([]*domain.Group, error)
	JoinGroup(ctx context.Context, groupID, userID string) error
	LeaveGroup(ctx context.Context, groupID, userID string) error
	ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error)
	CreateChannel(ctx context.Context, groupID, userID string, req *domain.CreateChannelRequest) (*domain.Channel, error)
	ListChannels(ctx context.Context, groupID string) ([]*domain.Channel, error)
}

// HistoryService serves paginated channel history.
type HistoryService interface {
	GetHistory(ctx context.Context, channelID string, before time.Time, limit int) (*domain.HistoryResult, error)
}

// EventService handles scheduled study sessions.
type EventService interface {
	Create(ctx context.Context, channelID, userID, userEmail string, req *domain.CreateEventRequest) (*domain.Event, error)
	List(ctx context.Context, channelID string) ([]*domain.Event, error)
	Update(ctx context.Context, eventID, userID string, req *domain.UpdateEventRequest) (*domain.Event, error)
	Delete(ctx context.Context, eventID, userID string) error
}

// ResourceService handles shared study materials.
type ResourceService interface {
	CreateLink(ctx context.Context, channelID, userID, userEmail, title, url string) (*domain.Resource, error)
	Upload(ctx context.Context, channelID, userID, userEmail, title string, file *multipart.FileHeader) (*domain.Resource, error)
	List(ctx context.Context, channelID string) ([]*domain.Resource, error)
	Summarize(ctx context.Context, resourceID, content string) (*domain.Resource, error)
	Delete(ctx context.Context, resourceID, userID string) error
}
