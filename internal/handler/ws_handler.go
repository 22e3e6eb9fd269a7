package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/BlackEmpir7199/StudySphere/internal/audit"
	"github.com/BlackEmpir7199/StudySphere/internal/config"
	"github.com/BlackEmpir7199/StudySphere/internal/domain"
	"github.com/BlackEmpir7199/StudySphere/internal/hub"
	"github.com/BlackEmpir7199/StudySphere/internal/middleware"
	"github.com/BlackEmpir7199/StudySphere/internal/service"
	"github.com/BlackEmpir7199/StudySphere/pkg/jwt"
	"github.com/BlackEmpir7199/StudySphere/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub        *hub.Hub
	service    service.ChatService
	jwtManager *jwt.Manager
	wsCfg      config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, svc service.ChatService, jwtManager *jwt.Manager, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:        h,
		service:    svc,
		jwtManager: jwtManager,
		wsCfg:      wsCfg,
	}
}

// HandleWebSocket authenticates the request and upgrades it. The token is
// verified before the upgrade so an unauthenticated caller never gets a
// connection, let alone a session.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := tokenFromHTTPRequest(r)
	if token == "" {
		http.Error(w, "missing authentication token", http.StatusUnauthorized)
		return
	}

	claims, err := h.jwtManager.Validate(token)
	if err != nil {
		audit.Log(r.Context(), audit.ActionAuthFailed, "", "websocket auth rejected")
		http.Error(w, "invalid or expired token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	session := domain.NewSession(uuid.New().String(), claims.UserID, claims.Email)
	client := hub.NewClient(session.ID, h.hub, conn, session, h.wsCfg)
	h.hub.Register(client)

	audit.Log(r.Context(), audit.ActionConnect, claims.UserID, "websocket connected")

	go client.WritePump()
	go func() {
		client.ReadPump(h.handleMessage)
		// The connection is gone; release everything it held.
		h.service.HandleDisconnect(context.Background(), client)
	}()
}

func (h *WSHandler) handleMessage(client *hub.Client, message []byte) {
	var envelope domain.WSEnvelope
	if err := json.Unmarshal(message, &envelope); err != nil {
		client.SendEvent(domain.NewErrorEvent("Invalid message format"))
		return
	}

	ctx := context.Background()

	switch envelope.Type {
	case domain.EventChannelJoin:
		var msg domain.ChannelEvent
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendEvent(domain.NewErrorEvent("Invalid channel:join payload"))
			return
		}
		h.logIfErr(client, h.service.HandleJoin(ctx, client, msg.ChannelID))

	case domain.EventChannelLeave:
		var msg domain.ChannelEvent
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendEvent(domain.NewErrorEvent("Invalid channel:leave payload"))
			return
		}
		h.logIfErr(client, h.service.HandleLeave(ctx, client, msg.ChannelID))

	case domain.EventMessageSend:
		var msg domain.SendEvent
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendEvent(domain.NewErrorEvent("Invalid message:send payload"))
			return
		}
		h.logIfErr(client, h.service.HandleSend(ctx, client, msg.ChannelID, msg.Text))

	case domain.EventTypingStart:
		var msg domain.ChannelEvent
		if err := json.Unmarshal(message, &msg); err != nil {
			return
		}
		h.logIfErr(client, h.service.HandleTypingStart(ctx, client, msg.ChannelID))

	case domain.EventTypingStop:
		var msg domain.ChannelEvent
		if err := json.Unmarshal(message, &msg); err != nil {
			return
		}
		h.logIfErr(client, h.service.HandleTypingStop(ctx, client, msg.ChannelID))

	default:
		client.SendEvent(domain.NewErrorEvent("Unknown message type"))
	}
}

func (h *WSHandler) logIfErr(client *hub.Client, err error) {
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Str(log.FieldSessionID, client.ID).Msg("websocket intent failed")
	}
}

// tokenFromHTTPRequest mirrors middleware.TokenFromRequest for the raw
// http.Request used during the upgrade handshake.
func tokenFromHTTPRequest(r *http.Request) string {
	if cookie, err := r.Cookie(middleware.AuthCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	authHeader := r.Header.Get(middleware.AuthHeaderKey)
	if strings.HasPrefix(authHeader, middleware.BearerPrefix) {
		return strings.TrimPrefix(authHeader, middleware.BearerPrefix)
	}
	// Browsers cannot set headers on WebSocket dials; allow a query token.
	return r.URL.Query().Get("token")
}
