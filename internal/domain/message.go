package domain

import "time"

// RedactedText replaces the body of a message the moderation oracle flagged.
// The original text is never stored or broadcast.
const RedactedText = "[Message removed by content moderation]"

// Message is one persisted chat message. Immutable once created: the
// moderation fields are fixed from a single verdict at submission time.
type Message struct {
	ID              string    `json:"id"`
	ChannelID       string    `json:"channelId"`
	UserID          string    `json:"userId"`
	User            UserRef   `json:"user"`
	Text            string    `json:"text"`
	IsModerated     bool      `json:"isModerated"`
	ModeratedReason string    `json:"moderatedReason,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// HistoryResult is one page of channel history, oldest first.
type HistoryResult struct {
	Messages []*Message `json:"messages"`
	HasMore  bool       `json:"hasMore"`
}

// MessageModel is the GORM model for the messages table.
type MessageModel struct {
	ID              string    `gorm:"type:varchar(36);primaryKey"`
	ChannelID       string    `gorm:"type:varchar(36);index:idx_channel_ts;not null"`
	UserID          string    `gorm:"type:varchar(36);index;not null"`
	UserEmail       string    `gorm:"type:varchar(255);not null"`
	Text            string    `gorm:"type:text;not null"`
	IsModerated     bool      `gorm:"not null;default:false"`
	ModeratedReason string    `gorm:"type:varchar(255)"`
	Timestamp       time.Time `gorm:"index:idx_channel_ts;autoCreateTime"`
}

func (MessageModel) TableName() string { return "messages" }

// ToDomain converts MessageModel to domain Message.
func (m *MessageModel) ToDomain() *Message {
	return &Message{
		ID:              m.ID,
		ChannelID:       m.ChannelID,
		UserID:          m.UserID,
		User:            UserRef{ID: m.UserID, Email: m.UserEmail},
		Text:            m.Text,
		IsModerated:     m.IsModerated,
		ModeratedReason: m.ModeratedReason,
		Timestamp:       m.Timestamp,
	}
}

// MessageToModel converts domain Message to MessageModel.
func MessageToModel(msg *Message) *MessageModel {
	return &MessageModel{
		ID:              msg.ID,
		ChannelID:       msg.ChannelID,
		UserID:          msg.UserID,
		UserEmail:       msg.User.Email,
		Text:            msg.Text,
		IsModerated:     msg.IsModerated,
		ModeratedReason: msg.ModeratedReason,
		Timestamp:       msg.Timestamp,
	}
}
