package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/moderation"
	"github.com/BlackEmpir7199/StudySphere/internal/repository"
)

type fakeModerator struct {
	verdict moderation.Verdict
	err     error
	calls   int
}

func (m *fakeModerator) Moderate(_ context.Context, _ string) (moderation.Verdict, error) {
	m.calls++
	if m.err != nil {
		return moderation.Verdict{}, m.err
	}
	return m.verdict, nil
}

type fakeMessageRepo struct {
	mu       sync.Mutex
	appended []*domain.Message
	err      error
}

func (r *fakeMessageRepo) Append(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	msg.ID = "msg-1"
	msg.Timestamp = time.Now().UTC()
	r.appended = append(r.appended, msg)
	return nil
}

func (r *fakeMessageRepo) ListByChannel(_ context.Context, _ string, _ time.Time, _ int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.appended, nil
}

func (r *fakeMessageRepo) all() []*domain.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*domain.Message, len(r.appended))
	copy(out, r.appended)
	return out
}

type fakeRegistry struct {
	mu           sync.Mutex
	registered   []string
	deregistered []string
}

func (r *fakeRegistry) Register(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registered = append(r.registered, channelID)
	return nil
}

func (r *fakeRegistry) Deregister(_ context.Context, channelID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deregistered = append(r.deregistered, channelID)
	return nil
}

func (r *fakeRegistry) StartHeartbeat(context.Context) error { return nil }
func (r *fakeRegistry) StopHeartbeat()                       {}
func (r *fakeRegistry) Close() error                         { return nil }

var _ repository.MessageRepository = (*fakeMessageRepo)(nil)

func testHub(t *testing.T) *hub.Hub {
	t.Helper()
	h := hub.NewHub(config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	})
	go h.Run()
	return h
}

func newTestClient(t *testing.T, h *hub.Hub, sessionID, userID, email string) *hub.Client {
	t.Helper()
	session := domain.NewSession(sessionID, userID, email)
	c := hub.NewClient(sessionID, h, nil, session, config.WebSocketConfig{MaxMessageSize: 4096})
	h.Register(c)
	return c
}

func recvEvent(t *testing.T, c *hub.Client, out interface{}) {
	t.Helper()
	select {
	case data := <-c.Send:
		require.NoError(t, json.Unmarshal(data, out))
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func assertNoEvent(t *testing.T, c *hub.Client) {
	t.Helper()
	select {
	case data := <-c.Send:
		t.Fatalf("unexpected event: %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHandleSendCleanBroadcastsToAllIncludingSender(t *testing.T) {
	h := testHub(t)
	repo := &fakeMessageRepo{}
	svc := NewChatService(h, &fakeModerator{verdict: moderation.Verdict{Clean: true}}, repo, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", "hello everyone"))

	for _, c := range []*hub.Client{alice, bob} {
		var got domain.MessageReceived
		recvEvent(t, c, &got)
		assert.Equal(t, domain.EventMessageReceived, got.Type)
		assert.Equal(t, "hello everyone", got.Message.Text)
		assert.Equal(t, "u-alice", got.Message.UserID)
		assert.False(t, got.Message.IsModerated)
	}

	msgs := repo.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, "hello everyone", msgs[0].Text)
}

func TestHandleSendFlaggedNotifiesOnlySender(t *testing.T) {
	h := testHub(t)
	repo := &fakeMessageRepo{}
	mod := &fakeModerator{verdict: moderation.Verdict{Clean: false, Reason: "Contains potentially offensive content"}}
	svc := NewChatService(h, mod, repo, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", "this is spam"))

	var got domain.MessageModerated
	recvEvent(t, alice, &got)
	assert.Equal(t, domain.EventMessageModerated, got.Type)
	assert.Equal(t, "Contains potentially offensive content", got.Reason)
	assert.Equal(t, "this is spam", got.OriginalTextPreview)

	// The room hears nothing, and the stored record is redacted.
	assertNoEvent(t, bob)

	msgs := repo.all()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.RedactedText, msgs[0].Text)
	assert.True(t, msgs[0].IsModerated)
	assert.NotContains(t, msgs[0].Text, "spam")
}

func TestHandleSendFlaggedPreviewTruncates(t *testing.T) {
	h := testHub(t)
	mod := &fakeModerator{verdict: moderation.Verdict{Clean: false, Reason: "flagged"}}
	svc := NewChatService(h, mod, &fakeMessageRepo{}, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))

	long := strings.Repeat("a", 80)
	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", long))

	var got domain.MessageModerated
	recvEvent(t, alice, &got)
	assert.Equal(t, strings.Repeat("a", 50)+"...", got.OriginalTextPreview)
}

func TestHandleSendOracleErrorFailsClosed(t *testing.T) {
	h := testHub(t)
	repo := &fakeMessageRepo{}
	mod := &fakeModerator{err: errors.New("oracle down")}
	svc := NewChatService(h, mod, repo, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", "hello"))

	var got domain.ErrorEvent
	recvEvent(t, alice, &got)
	assert.Equal(t, domain.EventError, got.Type)

	// Nothing persisted, nothing broadcast.
	assert.Empty(t, repo.all())
	assertNoEvent(t, bob)
}

func TestHandleSendWithoutJoinStillBroadcasts(t *testing.T) {
	h := testHub(t)
	repo := &fakeMessageRepo{}
	mod := &fakeModerator{verdict: moderation.Verdict{Clean: true}}
	svc := NewChatService(h, mod, repo, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	// Membership only routes broadcasts. A sender who never joined the
	// room still goes through moderation and the room still hears it.
	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", "hello"))

	var got domain.MessageReceived
	recvEvent(t, bob, &got)
	assert.Equal(t, domain.EventMessageReceived, got.Type)
	assert.Equal(t, "hello", got.Message.Text)
	assert.Equal(t, "u-alice", got.Message.UserID)
	assert.Equal(t, 1, mod.calls)
	assert.Len(t, repo.all(), 1)

	// The sender is not a room member, so the broadcast skips it.
	assertNoEvent(t, alice)
}

func TestHandleSendRejectsEmptyText(t *testing.T) {
	h := testHub(t)
	mod := &fakeModerator{verdict: moderation.Verdict{Clean: true}}
	svc := NewChatService(h, mod, &fakeMessageRepo{}, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))

	require.NoError(t, svc.HandleSend(context.Background(), alice, "chan-1", "   "))

	var got domain.ErrorEvent
	recvEvent(t, alice, &got)
	assert.Equal(t, domain.EventError, got.Type)
	assert.Zero(t, mod.calls)
}

func TestHandleJoinIsIdempotent(t *testing.T) {
	h := testHub(t)
	reg := &fakeRegistry{}
	svc := NewChatService(h, &fakeModerator{verdict: moderation.Verdict{Clean: true}}, &fakeMessageRepo{}, reg)

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))

	assert.Equal(t, 1, h.MemberCount("chan-1"))
	assert.Len(t, reg.registered, 1)
}

func TestHandleLeaveNeverJoinedIsNoop(t *testing.T) {
	h := testHub(t)
	reg := &fakeRegistry{}
	svc := NewChatService(h, &fakeModerator{}, &fakeMessageRepo{}, reg)

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	require.NoError(t, svc.HandleLeave(context.Background(), alice, "chan-9"))

	assertNoEvent(t, alice)
	assert.Empty(t, reg.deregistered)
}

func TestTypingExcludesSender(t *testing.T) {
	h := testHub(t)
	svc := NewChatService(h, &fakeModerator{}, &fakeMessageRepo{}, &fakeRegistry{})

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	require.NoError(t, svc.HandleTypingStart(context.Background(), alice, "chan-1"))

	var got domain.TypingUser
	recvEvent(t, bob, &got)
	assert.Equal(t, domain.EventTypingUser, got.Type)
	assert.Equal(t, "u-alice", got.UserID)
	assert.Equal(t, "alice@example.com", got.Email)

	assertNoEvent(t, alice)
}

func TestTypingWithoutJoinStillRelays(t *testing.T) {
	h := testHub(t)
	svc := NewChatService(h, &fakeModerator{}, &fakeMessageRepo{}, &fakeRegistry{})

	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	carol := newTestClient(t, h, "s-carol", "u-carol", "carol@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	// Carol never joined chan-1; the room still sees her typing signal.
	require.NoError(t, svc.HandleTypingStart(context.Background(), carol, "chan-1"))

	var got domain.TypingUser
	recvEvent(t, bob, &got)
	assert.Equal(t, domain.EventTypingUser, got.Type)
	assert.Equal(t, "u-carol", got.UserID)
}

func TestHandleDisconnectCleansUpEverything(t *testing.T) {
	h := testHub(t)
	reg := &fakeRegistry{}
	mod := &fakeModerator{verdict: moderation.Verdict{Clean: true}}
	svc := NewChatService(h, mod, &fakeMessageRepo{}, reg)

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	bob := newTestClient(t, h, "s-bob", "u-bob", "bob@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-2"))
	require.NoError(t, svc.HandleJoin(context.Background(), bob, "chan-1"))

	svc.HandleDisconnect(context.Background(), alice)

	assert.Equal(t, 1, h.MemberCount("chan-1"))
	assert.Equal(t, 0, h.MemberCount("chan-2"))
	assert.False(t, alice.Session.IsReady())
	// Only the now-empty channel loses its presence entry.
	assert.Equal(t, []string{"chan-2"}, reg.deregistered)

	// The room still works for remaining members.
	require.NoError(t, svc.HandleSend(context.Background(), bob, "chan-1", "still here"))
	var got domain.MessageReceived
	recvEvent(t, bob, &got)
	assert.Equal(t, "still here", got.Message.Text)
}

func TestHandleDisconnectTwiceIsSafe(t *testing.T) {
	h := testHub(t)
	reg := &fakeRegistry{}
	svc := NewChatService(h, &fakeModerator{}, &fakeMessageRepo{}, reg)

	alice := newTestClient(t, h, "s-alice", "u-alice", "alice@example.com")
	require.NoError(t, svc.HandleJoin(context.Background(), alice, "chan-1"))

	svc.HandleDisconnect(context.Background(), alice)
	svc.HandleDisconnect(context.Background(), alice)

	assert.Equal(t, []string{"chan-1"}, reg.deregistered)
}
