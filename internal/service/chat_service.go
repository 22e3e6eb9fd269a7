package service

import (
	"context"
	"strings"
	"time"

	"github.com/BlackEmpir7199/StudySphere/internal/audit"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/moderation"
	"github.com/BlackEmpir7199/StudySphere/internal/registry"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

const moderatedPreviewRunes = 50

type chatService struct {
	hub       *hub.Hub
	moderator moderation.Moderator
	messages  repository.MessageRepository
	registry  registry.Registry
}

func NewChatService(
	h *hub.Hub,
	moderator moderation.Moderator,
	messages repository.MessageRepository,
	reg registry.Registry,
) ChatService {
	return &chatService{
		hub:       h,
		moderator: moderator,
		messages:  messages,
		registry:  reg,
	}
}

// HandleJoin adds the client to a channel room. Joining twice is a no-op.
func (s *chatService) HandleJoin(ctx context.Context, c *hub.Client, channelID string) error {
	if channelID == "" {
		return c.SendEvent(domain.NewErrorEvent("channelId is required"))
	}
	if c.Session.InChannel(channelID) {
		return nil
	}

	s.hub.JoinChannel(c, channelID)
	c.Session.JoinChannel(channelID)

	if err := s.registry.Register(ctx, channelID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldChannelID, channelID).Msg("presence registration failed")
	}

	audit.LogWithDetail(ctx, audit.ActionJoinChannel, c.Session.UserID, channelID, "joined channel")
	return nil
}

// HandleLeave removes the client from a channel room. Leaving a channel
// never joined is a no-op.
func (s *chatService) HandleLeave(ctx context.Context, c *hub.Client, channelID string) error {
	if channelID == "" {
		return c.SendEvent(domain.NewErrorEvent("channelId is required"))
	}
	if !c.Session.InChannel(channelID) {
		return nil
	}

	s.hub.LeaveChannel(c, channelID)
	c.Session.LeaveChannel(channelID)
	s.deregisterIfEmpty(ctx, channelID)

	audit.LogWithDetail(ctx, audit.ActionLeaveChannel, c.Session.UserID, channelID, "left channel")
	return nil
}

// HandleSend runs the message pipeline: validate, moderate, then either
// persist-and-broadcast or persist-redacted-and-notify-sender. The
// moderation call and persistence happen outside any hub lock.
func (s *chatService) HandleSend(ctx context.Context, c *hub.Client, channelID, text string) error {
	if channelID == "" || strings.TrimSpace(text) == "" {
		return c.SendEvent(domain.NewErrorEvent("channelId and text are required"))
	}

	// Membership only routes broadcasts; a sender who never joined still
	// goes through the full pipeline and the room still hears the result.
	verdict, err := s.moderator.Moderate(ctx, text)
	if err != nil {
		// Fail closed: an unavailable oracle never lets text through.
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldChannelID, channelID).Msg("moderation unavailable")
		return c.SendEvent(domain.NewErrorEvent("Message could not be verified, please try again"))
	}

	msg := &domain.Message{
		ChannelID: channelID,
		UserID:    c.Session.UserID,
		User:      domain.UserRef{ID: c.Session.UserID, Email: c.Session.Email},
	}

	if verdict.Clean {
		msg.Text = text
		if err := s.messages.Append(ctx, msg); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Str(log.FieldChannelID, channelID).Msg("message persist failed")
			return c.SendEvent(domain.NewErrorEvent("Message could not be saved"))
		}

		audit.LogWithDetail(ctx, audit.ActionSendMessage, c.Session.UserID, channelID, "message sent")
		// Append and Broadcast are not atomic: two concurrent senders can
		// persist A,B yet enqueue B,A. Ordering is only guaranteed for
		// sends that do not interleave.
		return s.hub.Broadcast(channelID, &domain.MessageReceived{
			Type:    domain.EventMessageReceived,
			Message: msg,
		}, "")
	}

	// Flagged: persist the redacted record, notify only the sender.
	// The original text survives nowhere but the sender's preview.
	msg.Text = domain.RedactedText
	msg.IsModerated = true
	msg.ModeratedReason = verdict.Reason
	if err := s.messages.Append(ctx, msg); err != nil {
		l := log.Ctx(ctx)
		l.Error().Err(err).Str(log.FieldChannelID, channelID).Msg("redacted persist failed")
		return c.SendEvent(domain.NewErrorEvent("Message could not be saved"))
	}

	audit.LogWithDetail(ctx, audit.ActionMessageFlagged, c.Session.UserID, channelID, verdict.Reason)
	return c.SendEvent(&domain.MessageModerated{
		Type:                domain.EventMessageModerated,
		Reason:              verdict.Reason,
		OriginalTextPreview: previewText(text),
	})
}

// HandleTypingStart relays a typing signal to everyone else in the room.
// Stateless: nothing is persisted and nothing survives a disconnect.
func (s *chatService) HandleTypingStart(ctx context.Context, c *hub.Client, channelID string) error {
	if channelID == "" {
		return nil
	}
	return s.hub.Broadcast(channelID, &domain.TypingUser{
		Type:      domain.EventTypingUser,
		ChannelID: channelID,
		UserID:    c.Session.UserID,
		Email:     c.Session.Email,
	}, c.ID)
}

// HandleTypingStop relays a stop signal to everyone else in the room.
func (s *chatService) HandleTypingStop(ctx context.Context, c *hub.Client, channelID string) error {
	if channelID == "" {
		return nil
	}
	return s.hub.Broadcast(channelID, &domain.TypingUser{
		Type:      domain.EventTypingStop,
		ChannelID: channelID,
		UserID:    c.Session.UserID,
	}, c.ID)
}

// HandleDisconnect releases every room membership the connection held.
// After it returns no intent can be attributed to the session.
func (s *chatService) HandleDisconnect(ctx context.Context, c *hub.Client) {
	left := s.hub.Unregister(c)
	c.Session.Close()

	for _, channelID := range left {
		s.deregisterIfEmpty(ctx, channelID)
	}

	audit.Log(ctx, audit.ActionDisconnect, c.Session.UserID, "client disconnected")
}

// deregisterIfEmpty drops the channel's presence entry once the last
// local subscriber is gone. Registry failures are logged, never fatal.
func (s *chatService) deregisterIfEmpty(ctx context.Context, channelID string) {
	if s.hub.MemberCount(channelID) > 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := s.registry.Deregister(ctx, channelID); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Str(log.FieldChannelID, channelID).Msg("presence deregistration failed")
	}
}

// previewText returns the first 50 characters of the original text,
// with an ellipsis when truncated.
func previewText(text string) string {
	runes := []rune(text)
	if len(runes) <= moderatedPreviewRunes {
		return text
	}
	return string(runes[:moderatedPreviewRunes]) + "..."
}
