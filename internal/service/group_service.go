package service

import (
	"context"
	"errors"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
)

// ErrForbidden marks operations the caller lacks the role for.
var ErrForbidden = errors.New("forbidden")

type groupService struct {
	groups repository.GroupRepository
	users  repository.UserRepository
}

func NewGroupService(groups repository.GroupRepository, users repository.UserRepository) GroupService {
	return &groupService{groups: groups, users: users}
}

// CreateGroup creates a group owned by the caller. The repository seeds
// the default "general" channel and the owner's admin membership.
func (s *groupService) CreateGroup(ctx context.Context, ownerID string, req *domain.CreateGroupRequest) (*domain.Group, error) {
	group := &domain.Group{
		Name:        req.Name,
		Description: req.Description,
		OwnerID:     ownerID,
	}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	group.MemberCount = 1
	group.IsMember = true
	return group, nil
}

func (s *groupService) GetGroup(ctx context.Context, groupID, viewerID string) (*domain.Group, error) {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	s.annotateMembership(ctx, group, viewerID)

	if owner, err := s.users.GetByID(ctx, group.OwnerID); err == nil {
		ref := owner.Ref()
		group.Owner = &ref
	}
	return group, nil
}

func (s *groupService) ListGroups(ctx context.Context, viewerID string) ([]*domain.Group, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		s.annotateMembership(ctx, g, viewerID)
	}
	return groups, nil
}

func (s *groupService) ListMyGroups(ctx context.Context, userID string) ([]*domain.Group, error) {
	groups, err := s.groups.ListByMember(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.IsMember = true
	}
	return groups, nil
}

func (s *groupService) JoinGroup(ctx context.Context, groupID, userID string) error {
	return s.groups.AddMember(ctx, groupID, userID, domain.RoleMember)
}

// LeaveGroup removes the caller's membership. The owner cannot leave
// their own group.
func (s *groupService) LeaveGroup(ctx context.Context, groupID, userID string) error {
	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return err
	}
	if group.OwnerID == userID {
		return ErrForbidden
	}
	return s.groups.RemoveMember(ctx, groupID, userID)
}

func (s *groupService) ListMembers(ctx context.Context, groupID string) ([]*domain.GroupMember, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.ListMembers(ctx, groupID)
}

// CreateChannel adds a channel to a group. Admins only.
func (s *groupService) CreateChannel(ctx context.Context, groupID, userID string, req *domain.CreateChannelRequest) (*domain.Channel, error) {
	member, err := s.groups.GetMember(ctx, groupID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotMember) {
			return nil, ErrForbidden
		}
		return nil, err
	}
	if member.Role != domain.RoleAdmin {
		return nil, ErrForbidden
	}

	channel := &domain.Channel{
		GroupID: groupID,
		Name:    req.Name,
		Type:    req.Type,
	}
	if err := s.groups.CreateChannel(ctx, channel); err != nil {
		return nil, err
	}
	return channel, nil
}

func (s *groupService) ListChannels(ctx context.Context, groupID string) ([]*domain.Channel, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.ListChannels(ctx, groupID)
}

func (s *groupService) annotateMembership(ctx context.Context, group *domain.Group, viewerID string) {
	if viewerID == "" {
		return
	}
	if _, err := s.groups.GetMember(ctx, group.ID, viewerID); err == nil {
		group.IsMember = true
	}
}
