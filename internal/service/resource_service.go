package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BlackEmpir7199/StudySphere/internal/assistant"
	"github.com/BlackEmpir7199/StudySphere/internal/audit"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/moderation"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
	"github.com/BlackEmpir7199/StudySphere/pkg/storage"
)

// ErrResourceRejected is returned when a resource's metadata fails the
// moderation check; the reason is attached as the wrapped message.
var ErrResourceRejected = errors.New("resource rejected by moderation")

// ErrSummaryUnavailable is returned when no summarization model is configured.
var ErrSummaryUnavailable = errors.New("summarization unavailable")

const resourceURLTTL = 15 * time.Minute

type resourceService struct {
	resources repository.ResourceRepository
	groups    repository.GroupRepository
	moderator moderation.Moderator
	store     storage.Storage
	assistant *assistant.Assistant
	hub       *hub.Hub
}

func NewResourceService(
	resources repository.ResourceRepository,
	groups repository.GroupRepository,
	moderator moderation.Moderator,
	store storage.Storage,
	asst *assistant.Assistant,
	h *hub.Hub,
) ResourceService {
	return &resourceService{
		resources: resources,
		groups:    groups,
		moderator: moderator,
		store:     store,
		assistant: asst,
		hub:       h,
	}
}

// CreateLink shares an external link in the channel. The title and URL
// pass through the same moderation gate as chat text, failing closed.
func (s *resourceService) CreateLink(ctx context.Context, channelID, userID, userEmail, title, url string) (*domain.Resource, error) {
	if _, err := s.groups.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	if err := s.moderate(ctx, userID, title+" "+url); err != nil {
		return nil, err
	}

	resource := &domain.Resource{
		ChannelID:    channelID,
		Title:        title,
		URL:          url,
		FileType:     "link",
		UploadedByID: userID,
		UploadedBy:   domain.UserRef{ID: userID, Email: userEmail},
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		return nil, err
	}

	s.hub.Broadcast(channelID, &domain.EntityEvent{Type: domain.EventResourceCreated, Payload: resource}, "")
	return resource, nil
}

// Upload stores a file in the blob store and shares it in the channel.
func (s *resourceService) Upload(ctx context.Context, channelID, userID, userEmail, title string, file *multipart.FileHeader) (*domain.Resource, error) {
	if _, err := s.groups.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	if title == "" {
		title = file.Filename
	}
	if err := s.moderate(ctx, userID, title); err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	ext := filepath.Ext(file.Filename)
	key := fmt.Sprintf("resources/%s/%s%s", channelID, uuid.New().String(), ext)
	contentType := file.Header.Get("Content-Type")
	if err := s.store.Write(ctx, key, src, file.Size, contentType); err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	url, err := s.store.GetURL(ctx, key, resourceURLTTL)
	if err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str("key", key).Msg("resource url generation failed")
	}

	resource := &domain.Resource{
		ChannelID:    channelID,
		Title:        title,
		URL:          url,
		FileType:     strings.TrimPrefix(ext, "."),
		StorageKey:   key,
		UploadedByID: userID,
		UploadedBy:   domain.UserRef{ID: userID, Email: userEmail},
	}
	if err := s.resources.Create(ctx, resource); err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(delErr).Str("key", key).Msg("orphaned upload cleanup failed")
		}
		return nil, err
	}

	s.hub.Broadcast(channelID, &domain.EntityEvent{Type: domain.EventResourceCreated, Payload: resource}, "")
	return resource, nil
}

func (s *resourceService) List(ctx context.Context, channelID string) ([]*domain.Resource, error) {
	if _, err := s.groups.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.resources.ListByChannel(ctx, channelID)
}

// Summarize generates and stores a summary for a resource from its
// extracted text content.
func (s *resourceService) Summarize(ctx context.Context, resourceID, content string) (*domain.Resource, error) {
	if s.assistant == nil {
		return nil, ErrSummaryUnavailable
	}

	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	summary, err := s.assistant.Summarize(ctx, resource.Title, content)
	if err != nil {
		return nil, fmt.Errorf("summarize resource: %w", err)
	}

	if err := s.resources.UpdateSummary(ctx, resourceID, summary); err != nil {
		return nil, err
	}
	resource.Summary = summary

	s.hub.Broadcast(resource.ChannelID, &domain.EntityEvent{Type: domain.EventResourceUpdated, Payload: resource}, "")
	return resource, nil
}

// Delete removes a resource and its stored file. Only the uploader may
// delete it.
func (s *resourceService) Delete(ctx context.Context, resourceID, userID string) error {
	resource, err := s.resources.GetByID(ctx, resourceID)
	if err != nil {
		return err
	}
	if resource.UploadedByID != userID {
		return ErrForbidden
	}

	if err := s.resources.Delete(ctx, resourceID); err != nil {
		return err
	}
	if resource.StorageKey != "" {
		if err := s.store.Delete(ctx, resource.StorageKey); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Str("key", resource.StorageKey).Msg("stored file cleanup failed")
		}
	}

	s.hub.Broadcast(resource.ChannelID, &domain.EntityEvent{
		Type:    domain.EventResourceDeleted,
		Payload: map[string]string{"id": resourceID, "channelId": resource.ChannelID},
	}, "")
	return nil
}

func (s *resourceService) moderate(ctx context.Context, userID, text string) error {
	verdict, err := s.moderator.Moderate(ctx, text)
	if err != nil {
		// Fail closed, same contract as the chat pipeline.
		return fmt.Errorf("%w: verification unavailable", ErrResourceRejected)
	}
	if !verdict.Clean {
		audit.LogWithDetail(ctx, audit.ActionResourceRejected, userID, verdict.Reason, "resource rejected")
		return fmt.Errorf("%w: %s", ErrResourceRejected, verdict.Reason)
	}
	return nil
}
