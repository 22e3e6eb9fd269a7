package domain

import (
	"time"

	"gorm.io/gorm"
)

// Event is a scheduled study session within a channel.
type Event struct {
	ID            string    `json:"id"`
	ChannelID     string    `json:"channelId"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	MeetLink      string    `json:"meetLink,omitempty"`
	ScheduledDate time.Time `json:"scheduledDate"`
	CreatedByID   string    `json:"createdById"`
	CreatedBy     UserRef   `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
}

// EventModel is the GORM model for the events table.
type EventModel struct {
	ID             string         `gorm:"type:varchar(36);primaryKey"`
	ChannelID      string         `gorm:"type:varchar(36);index;not null"`
	Title          string         `gorm:"type:varchar(200);not null"`
	Description    string         `gorm:"type:text"`
	MeetLink       string         `gorm:"type:varchar(500)"`
	ScheduledDate  time.Time      `gorm:"index;not null"`
	CreatedByID    string         `gorm:"type:varchar(36);index;not null"`
	CreatedByEmail string         `gorm:"type:varchar(255);not null"`
	CreatedAt      time.Time      `gorm:"autoCreateTime"`
	DeletedAt      gorm.DeletedAt `gorm:"index"`
}

func (EventModel) TableName() string { return "events" }

// ToDomain converts EventModel to domain Event.
func (m *EventModel) ToDomain() *Event {
	return &Event{
		ID:            m.ID,
		ChannelID:     m.ChannelID,
		Title:         m.Title,
		Description:   m.Description,
		MeetLink:      m.MeetLink,
		ScheduledDate: m.ScheduledDate,
		CreatedByID:   m.CreatedByID,
		CreatedBy:     UserRef{ID: m.CreatedByID, Email: m.CreatedByEmail},
		CreatedAt:     m.CreatedAt,
	}
}

// EventToModel converts domain Event to EventModel.
func EventToModel(e *Event) *EventModel {
	return &EventModel{
		ID:             e.ID,
		ChannelID:      e.ChannelID,
		Title:          e.Title,
		Description:    e.Description,
		MeetLink:       e.MeetLink,
		ScheduledDate:  e.ScheduledDate,
		CreatedByID:    e.CreatedByID,
		CreatedByEmail: e.CreatedBy.Email,
		CreatedAt:      e.CreatedAt,
	}
}

// CreateEventRequest is the event creation payload.
type CreateEventRequest struct {
	Title         string    `json:"title" binding:"required"`
	Description   string    `json:"description"`
	MeetLink      string    `json:"meetLink"`
	ScheduledDate time.Time `json:"scheduledDate" binding:"required"`
}

// UpdateEventRequest is the partial event update payload.
type UpdateEventRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	MeetLink      *string    `json:"meetLink"`
	ScheduledDate *time.Time `json:"scheduledDate"`
}
