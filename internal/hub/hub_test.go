package hub

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
)

func newHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	})
	go h.Run()
	return h
}

func newClient(t *testing.T, h *Hub, id string) *Client {
	t.Helper()
	session := domain.NewSession(id, "user-"+id, id+"@example.com")
	c := NewClient(id, h, nil, session, config.WebSocketConfig{MaxMessageSize: 4096})
	h.Register(c)
	return c
}

func recv(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case data := <-c.Send:
		return data
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for broadcast")
		return nil
	}
}

func TestJoinChannelIdempotent(t *testing.T) {
	h := newHub(t)
	c := newClient(t, h, "s1")

	h.JoinChannel(c, "chan-1")
	h.JoinChannel(c, "chan-1")

	assert.Equal(t, 1, h.MemberCount("chan-1"))
	assert.Equal(t, []string{"s1"}, h.Members("chan-1"))
}

func TestLeaveChannelDropsEmptyRoom(t *testing.T) {
	h := newHub(t)
	c := newClient(t, h, "s1")

	h.JoinChannel(c, "chan-1")
	h.LeaveChannel(c, "chan-1")

	assert.Equal(t, 0, h.MemberCount("chan-1"))
	assert.Nil(t, h.Members("chan-1"))

	// Leaving again, or a channel never joined, is a no-op.
	h.LeaveChannel(c, "chan-1")
	h.LeaveChannel(c, "chan-9")
}

func TestJoinAfterUnregisterIsNoop(t *testing.T) {
	h := newHub(t)
	c := newClient(t, h, "s1")
	h.Unregister(c)

	h.JoinChannel(c, "chan-1")
	assert.Equal(t, 0, h.MemberCount("chan-1"))
}

func TestBroadcastReachesAllMembers(t *testing.T) {
	h := newHub(t)
	c1 := newClient(t, h, "s1")
	c2 := newClient(t, h, "s2")
	c3 := newClient(t, h, "s3")

	h.JoinChannel(c1, "chan-1")
	h.JoinChannel(c2, "chan-1")
	h.JoinChannel(c3, "chan-2")

	require.NoError(t, h.Broadcast("chan-1", map[string]string{"type": "test"}, ""))

	for _, c := range []*Client{c1, c2} {
		var got map[string]string
		require.NoError(t, json.Unmarshal(recv(t, c), &got))
		assert.Equal(t, "test", got["type"])
	}

	select {
	case data := <-c3.Send:
		t.Fatalf("client in another room received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastExcludesSender(t *testing.T) {
	h := newHub(t)
	c1 := newClient(t, h, "s1")
	c2 := newClient(t, h, "s2")
	h.JoinChannel(c1, "chan-1")
	h.JoinChannel(c2, "chan-1")

	require.NoError(t, h.Broadcast("chan-1", map[string]string{"type": "typing"}, "s1"))

	recv(t, c2)
	select {
	case data := <-c1.Send:
		t.Fatalf("excluded sender received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastOrderIsFIFO(t *testing.T) {
	h := newHub(t)
	c := newClient(t, h, "s1")
	h.JoinChannel(c, "chan-1")

	for i := 0; i < 20; i++ {
		require.NoError(t, h.Broadcast("chan-1", map[string]int{"seq": i}, ""))
	}

	for i := 0; i < 20; i++ {
		var got map[string]int
		require.NoError(t, json.Unmarshal(recv(t, c), &got))
		assert.Equal(t, i, got["seq"])
	}
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	h := newHub(t)
	c1 := newClient(t, h, "s1")
	c2 := newClient(t, h, "s2")

	h.JoinChannel(c1, "chan-1")
	h.JoinChannel(c1, "chan-2")
	h.JoinChannel(c2, "chan-1")

	left := h.Unregister(c1)
	assert.ElementsMatch(t, []string{"chan-1", "chan-2"}, left)
	assert.Equal(t, 1, h.MemberCount("chan-1"))
	assert.Equal(t, 0, h.MemberCount("chan-2"))

	// Second unregister reports nothing left to clean up.
	assert.Empty(t, h.Unregister(c1))
}

func TestBroadcastAfterUnregisterDoesNotPanic(t *testing.T) {
	h := newHub(t)
	c1 := newClient(t, h, "s1")
	c2 := newClient(t, h, "s2")
	h.JoinChannel(c1, "chan-1")
	h.JoinChannel(c2, "chan-1")

	h.Unregister(c1)

	require.NoError(t, h.Broadcast("chan-1", map[string]string{"type": "test"}, ""))
	recv(t, c2)

	// A send racing the disconnect is dropped, not delivered or panicking.
	require.NoError(t, c1.SendEvent(map[string]string{"type": "late"}))
}
