package domain

import (
	"sync"
	"time"
)

// SessionState is the lifecycle state of a connection's session.
type SessionState int

const (
	// SessionReady means the connection authenticated and accepts intents.
	// Sessions are born Ready: the credential is verified in the transport
	// handshake before any session exists, so there is no anonymous state.
	SessionReady SessionState = iota
	// SessionClosed means disconnect cleanup ran; no intent may be
	// attributed to the session anymore.
	SessionClosed
)

// Session is the per-connection state: the authenticated identity and the
// set of channels the connection joined. One per live connection.
type Session struct {
	ID     string
	UserID string
	Email  string

	state        SessionState
	joined       map[string]struct{}
	createdAt    time.Time
	lastActiveAt time.Time
	mu           sync.RWMutex
}

// NewSession creates a Ready session bound to an authenticated identity.
func NewSession(id, userID, email string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		UserID:       userID,
		Email:        email,
		state:        SessionReady,
		joined:       make(map[string]struct{}),
		createdAt:    now,
		lastActiveAt: now,
	}
}

// IsReady reports whether the session still accepts intents.
func (s *Session) IsReady() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == SessionReady
}

// JoinChannel records channel membership. Idempotent.
func (s *Session) JoinChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != SessionReady {
		return
	}
	s.joined[channelID] = struct{}{}
	s.lastActiveAt = time.Now()
}

// LeaveChannel removes channel membership. Idempotent.
func (s *Session) LeaveChannel(channelID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.joined, channelID)
	s.lastActiveAt = time.Now()
}

// InChannel reports whether the session joined the given channel.
func (s *Session) InChannel(channelID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.joined[channelID]
	return ok
}

// Channels returns a snapshot of the joined channel ids.
func (s *Session) Channels() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.joined))
	for id := range s.joined {
		out = append(out, id)
	}
	return out
}

// Close transitions to Closed and releases all memberships, returning the
// channels that were joined. Safe to call more than once.
func (s *Session) Close() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SessionClosed {
		return nil
	}
	s.state = SessionClosed
	out := make([]string, 0, len(s.joined))
	for id := range s.joined {
		out = append(out, id)
	}
	s.joined = make(map[string]struct{})
	return out
}

// Touch updates the activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastActiveAt = time.Now()
}
