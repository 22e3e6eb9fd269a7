package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/moderation"
	"github.com/BlackEmpir7199/StudySphere/internal/registry"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/jwt"
)

type memoryMessageRepo struct {
	mu   sync.Mutex
	msgs []*domain.Message
}

func (r *memoryMessageRepo) Append(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg.ID = "m1"
	msg.Timestamp = time.Now().UTC()
	r.msgs = append(r.msgs, msg)
	return nil
}

func (r *memoryMessageRepo) ListByChannel(_ context.Context, _ string, _ time.Time, _ int) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.msgs, nil
}

func newTestServer(t *testing.T) (*httptest.Server, *jwt.Manager) {
	t.Helper()
	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}

	h := hub.NewHub(wsCfg)
	go h.Run()

	jwtManager := jwt.NewManager("test-secret", time.Hour, "studysphere")
	svc := service.NewChatService(h, moderation.NewKeywordModerator(), &memoryMessageRepo{}, registry.NewNoopRegistry())
	wsHandler := NewWSHandler(h, svc, jwtManager, wsCfg)

	srv := httptest.NewServer(http.HandlerFunc(wsHandler.HandleWebSocket))
	t.Cleanup(srv.Close)
	return srv, jwtManager
}

func dial(t *testing.T, srv *httptest.Server, header http.Header) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, header)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn, out interface{}) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestUpgradeRejectedWithoutToken(t *testing.T) {
	srv, _ := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpgradeRejectedWithBadToken(t *testing.T) {
	srv, _ := newTestServer(t)

	header := http.Header{}
	header.Set("Authorization", "Bearer garbage")
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJoinAndSendRoundtrip(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	token, err := jwtManager.Generate("u-alice", "alice@example.com")
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Cookie", "token="+token)

	conn := dial(t, srv, header)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      domain.EventChannelJoin,
		"channelId": "chan-1",
	}))
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      domain.EventMessageSend,
		"channelId": "chan-1",
		"text":      "hello from the test",
	}))

	var got domain.MessageReceived
	readEvent(t, conn, &got)
	assert.Equal(t, domain.EventMessageReceived, got.Type)
	assert.Equal(t, "hello from the test", got.Message.Text)
	assert.Equal(t, "u-alice", got.Message.UserID)
	assert.Equal(t, "alice@example.com", got.Message.User.Email)
}

func TestFlaggedMessageReturnsModeratedEvent(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	token, err := jwtManager.Generate("u-alice", "alice@example.com")
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn := dial(t, srv, header)

	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      domain.EventChannelJoin,
		"channelId": "chan-1",
	}))
	require.NoError(t, conn.WriteJSON(map[string]string{
		"type":      domain.EventMessageSend,
		"channelId": "chan-1",
		"text":      "this is definitely spam",
	}))

	var got domain.MessageModerated
	readEvent(t, conn, &got)
	assert.Equal(t, domain.EventMessageModerated, got.Type)
	assert.Equal(t, "Contains spam or promotional content", got.Reason)
	assert.Equal(t, "this is definitely spam", got.OriginalTextPreview)
}

func TestUnknownEventTypeGetsError(t *testing.T) {
	srv, jwtManager := newTestServer(t)

	token, err := jwtManager.Generate("u-alice", "alice@example.com")
	require.NoError(t, err)
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	conn := dial(t, srv, header)

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "nonsense"}))

	var got domain.ErrorEvent
	readEvent(t, conn, &got)
	assert.Equal(t, domain.EventError, got.Type)
}
