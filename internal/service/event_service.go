package service

import (
	"context"

	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
)

type eventService struct {
	events repository.EventRepository
	groups repository.GroupRepository
	hub    *hub.Hub
}

func NewEventService(
	events repository.EventRepository,
	groups repository.GroupRepository,
	h *hub.Hub,
) EventService {
	return &eventService{events: events, groups: groups, hub: h}
}

// Create schedules a study session and fans it out to the channel room.
func (s *eventService) Create(ctx context.Context, channelID, userID, userEmail string, req *domain.CreateEventRequest) (*domain.Event, error) {
	if _, err := s.groups.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}

	event := &domain.Event{
		ChannelID:     channelID,
		Title:         req.Title,
		Description:   req.Description,
		MeetLink:      req.MeetLink,
		ScheduledDate: req.ScheduledDate,
		CreatedByID:   userID,
		CreatedBy:     domain.UserRef{ID: userID, Email: userEmail},
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, err
	}

	s.hub.Broadcast(channelID, &domain.EntityEvent{Type: domain.EventCreated, Payload: event}, "")
	return event, nil
}

func (s *eventService) List(ctx context.Context, channelID string) ([]*domain.Event, error) {
	if _, err := s.groups.GetChannel(ctx, channelID); err != nil {
		return nil, err
	}
	return s.events.ListByChannel(ctx, channelID)
}

// Update patches an event. Only the creator may change it.
func (s *eventService) Update(ctx context.Context, eventID, userID string, req *domain.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.CreatedByID != userID {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.MeetLink != nil {
		event.MeetLink = *req.MeetLink
	}
	if req.ScheduledDate != nil {
		event.ScheduledDate = *req.ScheduledDate
	}

	if err := s.events.Update(ctx, event); err != nil {
		return nil, err
	}

	s.hub.Broadcast(event.ChannelID, &domain.EntityEvent{Type: domain.EventUpdated, Payload: event}, "")
	return event, nil
}

// Delete removes an event. Only the creator may delete it.
func (s *eventService) Delete(ctx context.Context, eventID, userID string) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if event.CreatedByID != userID {
		return ErrForbidden
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.hub.Broadcast(event.ChannelID, &domain.EntityEvent{
		Type:    domain.EventDeleted,
		Payload: map[string]string{"id": eventID, "channelId": event.ChannelID},
	}, "")
	return nil
}
