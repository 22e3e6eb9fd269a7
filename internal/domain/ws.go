package domain

// WebSocket event types from client.
const (
	EventChannelJoin  = "channel:join"
	EventChannelLeave = "channel:leave"
	EventMessageSend  = "message:send"
	EventTypingStart  = "typing:start"
	EventTypingStop   = "typing:stop"
)

// WebSocket event types to client.
const (
	EventMessageReceived  = "message:received"
	EventMessageModerated = "message:moderated"
	EventTypingUser       = "typing:user"
	EventError            = "error"
	EventCreated          = "event:created"
	EventUpdated          = "event:updated"
	EventDeleted          = "event:deleted"
	EventResourceCreated  = "resource:created"
	EventResourceUpdated  = "resource:updated"
	EventResourceDeleted  = "resource:deleted"
)

// WSEnvelope is the base structure of every inbound WebSocket event.
type WSEnvelope struct {
	Type string `json:"type"`
}

// Client -> Server events

// ChannelEvent carries join/leave/typing intents.
type ChannelEvent struct {
	Type      string `json:"type"`
	ChannelID string `json:"channelId"`
}

// SendEvent is a message:send intent.
type SendEvent struct {
	Type      string `json:"type"`
	ChannelID string `json:"channelId"`
	Text      string `json:"text"`
}

// Server -> Client events

// MessageReceived carries a persisted clean message to room members.
type MessageReceived struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

// MessageModerated is the sender-only notification for a flagged message.
type MessageModerated struct {
	Type                string `json:"type"`
	Reason              string `json:"reason"`
	OriginalTextPreview string `json:"originalTextPreview"`
}

// TypingUser signals another member started typing.
type TypingUser struct {
	Type      string `json:"type"`
	ChannelID string `json:"channelId"`
	UserID    string `json:"userId"`
	Email     string `json:"email,omitempty"`
}

// ErrorEvent is a sender-only failure notification.
type ErrorEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewErrorEvent builds an error event.
func NewErrorEvent(message string) *ErrorEvent {
	return &ErrorEvent{Type: EventError, Message: message}
}

// EntityEvent fans out event/resource CRUD to a channel room.
type EntityEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
